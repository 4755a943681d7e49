package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/registry"
	"github.com/vk/themeforge/internal/testutil"
)

var newEnv = testutil.NewEnv

func TestGlob_ExcludesVendor(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := newEnv(t, config.Mode{}, map[string]string{
		"src/scripts/main.js":          "a",
		"src/scripts/lib/util.js":      "b",
		"src/scripts/vendor/jquery.js": "c",
		"src/scripts/readme.md":        "d",
	})

	// --- Act ---
	got, err := Sources(env, env.Paths.Scripts)
	require.NoError(t, err)
	vendor, err := VendorSources(env, env.Paths.Scripts)
	require.NoError(t, err)

	// --- Assert ---
	if diff := cmp.Diff([]string{"src/scripts/lib/util.js", "src/scripts/main.js"}, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"src/scripts/vendor/jquery.js"}, vendor)
}

func TestGlob_MissingDirectoryIsEmpty(t *testing.T) {
	t.Parallel()

	env := newEnv(t, config.Mode{}, nil)

	got, err := Sources(env, env.Paths.Fonts)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	inc := []string{"src/styles/**/*.{scss,sass}"}
	exc := []string{"src/styles/vendor/**"}

	ok, err := Matches(inc, exc, "src/styles/base/_reset.scss")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(inc, exc, "src/styles/vendor/x.scss")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewer(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := newEnv(t, config.Mode{}, map[string]string{
		"src/fonts/a.woff": "a",
		"src/fonts/b.woff": "b",
		"out/fonts/a.woff": "a",
	})
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(env.Abs("src/fonts/a.woff"), old, old))

	// --- Act ---
	got, err := Newer(env, []string{"src/fonts/a.woff", "src/fonts/b.woff"}, "src/fonts", "out/fonts")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"src/fonts/b.woff"}, got)
}

func TestLint_Policy(t *testing.T) {
	t.Parallel()

	problem := errors.New("unexpected token")
	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

	err := Lint(ctx, config.Mode{Production: true}, "main.js", problem)
	require.ErrorIs(t, err, ErrLint)
	require.ErrorIs(t, err, problem)

	require.NoError(t, Lint(ctx, config.Mode{}, "main.js", problem))
	assert.Contains(t, logs.String(), "unexpected token")
	assert.NoError(t, Lint(ctx, config.Mode{Production: true}, "main.js", nil))
}

func TestPublish_RevisionsAndMergesManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := newEnv(t, config.Mode{}, nil)
	rec := &testutil.RecordingReloader{}
	env.Reloader = rec
	dest := env.Paths.Styles.Dest

	// --- Act ---
	err := Publish(context.Background(), env, dest, []File{{Name: "site.css", Data: []byte("body{}")}},
		PublishOptions{Rev: true, Reload: registry.ReloadCSS})
	require.NoError(t, err)
	err = Publish(context.Background(), env, env.Paths.Scripts.Dest, []File{{Name: "main.js", Data: []byte("x()")}},
		PublishOptions{Rev: true})
	require.NoError(t, err)

	// --- Assert ---
	entries, err := env.Manifest.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	hashed := entries["styles/site.css"]
	assert.Regexp(t, `^styles/site-[0-9a-f]{10}\.css$`, hashed)
	assert.Regexp(t, `^scripts/main-[0-9a-f]{10}\.js$`, entries["scripts/main.js"])
	assert.FileExists(t, env.Abs(env.Paths.Dist+"/"+hashed))
	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, registry.ReloadCSS, rec.Calls()[0].Kind)
}

func TestPublish_StaticKeepsNames(t *testing.T) {
	t.Parallel()

	env := newEnv(t, config.Mode{Static: true}, nil)

	err := Publish(context.Background(), env, env.Paths.Styles.Dest, []File{{Name: "site.css", Data: []byte("a{}")}},
		PublishOptions{Rev: true})

	require.NoError(t, err)
	assert.FileExists(t, env.Abs("static/styles/site.css"))
	assert.NoFileExists(t, env.Manifest.Path())
}

func TestPublish_Precompress(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := newEnv(t, config.Mode{Production: true, Static: true}, nil)
	env.Project.Precompress = true
	data := bytes.Repeat([]byte("body{color:red}"), 50)

	// --- Act ---
	err := Publish(context.Background(), env, env.Paths.Styles.Dest, []File{{Name: "site.css", Data: data}}, PublishOptions{})
	require.NoError(t, err)

	// --- Assert ---
	gzData, err := os.ReadFile(env.Abs("static/styles/site.css.gz"))
	require.NoError(t, err)
	zr, err := gzip.NewReader(bytes.NewReader(gzData))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, data, plain)

	brData, err := os.ReadFile(env.Abs("static/styles/site.css.br"))
	require.NoError(t, err)
	plain, err = io.ReadAll(brotli.NewReader(bytes.NewReader(brData)))
	require.NoError(t, err)
	assert.Equal(t, data, plain)
}

func TestPublish_NothingToWrite(t *testing.T) {
	t.Parallel()

	env := newEnv(t, config.Mode{}, nil)

	require.NoError(t, Publish(context.Background(), env, env.Paths.Styles.Dest, nil, PublishOptions{Rev: true}))
	assert.NoDirExists(t, env.Abs(env.Paths.Styles.Dest))
}

func TestMap_PreservesOrder(t *testing.T) {
	t.Parallel()

	got, err := Map(context.Background(), []int{3, 1, 2}, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{30, 10, 20}, got)
}

func TestMap_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Map(context.Background(), []int{1, 2}, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})

	assert.ErrorIs(t, err, boom)
}

func TestMinify(t *testing.T) {
	t.Parallel()

	in := []byte("<html>\n  <body>\n    <p>  hi  </p>\n  </body>\n</html>\n")
	out, err := Minify(MediaHTML, in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "hi")
	assert.NotContains(t, string(out), "\n")
	assert.Less(t, len(out), len(in))

	out, err = Minify(MediaSVG, []byte(`<svg xmlns="http://www.w3.org/2000/svg">  <!-- c -->  <rect width="10" height="10"/></svg>`))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<!--")
}
