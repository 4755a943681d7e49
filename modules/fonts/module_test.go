package fonts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/testutil"
)

func TestFonts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	env := testutil.NewEnv(t, config.Mode{}, map[string]string{
		"src/fonts/inter/inter.woff2": "woff2",
		"src/fonts/notes.txt":         "skip",
	})

	// --- Act ---
	err := OnRunFonts(context.Background(), env)

	// --- Assert ---
	require.NoError(t, err)
	theme := "wordpress/wp-content/themes/demo/fonts/"
	assert.FileExists(t, env.Abs(theme+"inter/inter.woff2"))
	assert.NoFileExists(t, env.Abs(theme+"notes.txt"))
}

func TestFonts_EmptyCategory(t *testing.T) {
	t.Parallel()

	env := testutil.NewEnv(t, config.Mode{Static: true}, nil)

	require.NoError(t, OnRunFonts(context.Background(), env))
	assert.NoDirExists(t, env.Abs(env.Paths.Fonts.Dest))
}
