package scripts

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
	"github.com/vk/themeforge/internal/testutil"
)

func setup(t *testing.T, mode config.Mode, files map[string]string) (*registry.Env, context.Context, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))
	return testutil.NewEnv(t, mode, files), ctx, &logs
}

const (
	good = "const greet = (n) => `hi ${n}`;\nconsole.log(greet('x'));\n"
	bad  = "function broken( {\n"
)

func TestScripts_ProductionFailsOnLintError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env, ctx, _ := setup(t, config.Mode{Production: true, Static: true}, map[string]string{
		"src/scripts/a.js": good,
		"src/scripts/b.js": bad,
	})

	// --- Act ---
	err := OnRunScripts(ctx, env)

	// --- Assert ---
	require.ErrorIs(t, err, pipeline.ErrLint)
	assert.Contains(t, err.Error(), "src/scripts/b.js")
	assert.NoFileExists(t, env.Abs("static/scripts/demo.js"))
}

func TestScripts_DevelopmentSkipsBadFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env, ctx, logs := setup(t, config.Mode{Static: true}, map[string]string{
		"src/scripts/a.js": good,
		"src/scripts/b.js": bad,
	})

	// --- Act ---
	err := OnRunScripts(ctx, env)

	// --- Assert ---
	require.NoError(t, err)
	out, err := os.ReadFile(env.Abs("static/scripts/demo.js"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "greet")
	assert.Contains(t, string(out), "sourceMappingURL=data:")
	assert.Contains(t, logs.String(), "src/scripts/b.js")
}

func TestScripts_ProductionMinifiesAndDropsConsoleLog(t *testing.T) {
	t.Parallel()

	env, ctx, _ := setup(t, config.Mode{Production: true, Static: true}, map[string]string{
		"src/scripts/a.js": "console.log('debug');\nwindow.ready = function () { return 1 + 1; };\n",
	})

	require.NoError(t, OnRunScripts(ctx, env))

	out, err := os.ReadFile(env.Abs("static/scripts/demo.js"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "console.log")
	assert.NotContains(t, string(out), "sourceMappingURL")
	assert.Contains(t, string(out), "window.ready")
}

func TestScripts_EmptyCategory(t *testing.T) {
	t.Parallel()

	env, ctx, _ := setup(t, config.Mode{Production: true}, nil)

	require.NoError(t, OnRunScripts(ctx, env))
	require.NoError(t, OnRunVendorScripts(ctx, env))

	assert.NoDirExists(t, env.Abs(env.Paths.Scripts.Dest))
	assert.NoFileExists(t, env.Manifest.Path())
}

func TestVendorScripts_RevisionedIntoManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env, ctx, _ := setup(t, config.Mode{}, map[string]string{
		"src/scripts/vendor/a.js": "var a = 1;",
		"src/scripts/vendor/b.js": "var b = 2;",
	})

	// --- Act ---
	err := OnRunVendorScripts(ctx, env)

	// --- Assert ---
	require.NoError(t, err)
	entries, err := env.Manifest.Load()
	require.NoError(t, err)
	require.Contains(t, entries, "scripts/vendor.js")
	out, err := os.ReadFile(env.Abs(env.Paths.Dist + "/" + entries["scripts/vendor.js"]))
	require.NoError(t, err)
	assert.Contains(t, string(out), "a = 1")
	assert.Contains(t, string(out), "b = 2")
}

func TestScripts_RebuildReloadsBrowsers(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env, ctx, _ := setup(t, config.Mode{Static: true}, map[string]string{
		"src/scripts/main.js": good,
	})
	rec := &testutil.RecordingReloader{}
	env.Reloader = rec

	// --- Act ---
	err := OnRunScripts(ctx, env)

	// --- Assert ---
	require.NoError(t, err)
	calls := rec.Calls()
	require.Len(t, calls, 1, "one reload per rebuilt bundle")
	assert.Equal(t, registry.ReloadFull, calls[0].Kind)
	assert.FileExists(t, env.Abs("static/scripts/demo.js"))
}
