package clean

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/testutil"
)

func TestCleanAssets(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := testutil.NewEnv(t, config.Mode{Static: true}, map[string]string{
		"static/styles/demo.css":    "x",
		"static/scripts/demo.js":    "x",
		"static/images/icons/a.png": "x",
		"static/fonts/a.woff":       "x",
		"static/index.html":         "x",
		"static/rev-manifest.json":  "x",
	})
	root := env.Root

	// --- Act ---
	err := OnRunCleanAssets(context.Background(), env)

	// --- Assert ---
	require.NoError(t, err)
	for _, dir := range []string{"styles", "scripts", "images", "fonts"} {
		entries, err := os.ReadDir(filepath.Join(root, "static", dir))
		require.NoError(t, err)
		assert.Empty(t, entries, dir)
	}
	assert.FileExists(t, filepath.Join(root, "static", "index.html"))
	assert.FileExists(t, filepath.Join(root, "static", "rev-manifest.json"))
}

func TestCleanAssets_NothingToClean(t *testing.T) {
	t.Parallel()

	env := testutil.NewEnv(t, config.Mode{}, nil)

	assert.NoError(t, OnRunCleanAssets(context.Background(), env))
}
