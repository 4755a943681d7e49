package themeinfo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/registry"
)

func TestCreateThemeInfo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		mode config.Mode
		want string
	}{
		{"themed", config.Mode{}, "wordpress/wp-content/themes/my-theme/style.css"},
		{"static", config.Mode{Static: true}, "static/style.css"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			project := config.Project{Name: "my-theme", Version: "1.2.0"}.WithDefaults()
			env := registry.NewEnv(t.TempDir(), project, tc.mode)

			// --- Act ---
			err := OnRunCreateThemeInfo(context.Background(), env)

			// --- Assert ---
			require.NoError(t, err)
			got, err := os.ReadFile(env.Abs(tc.want))
			require.NoError(t, err)
			assert.Equal(t, "/*\nTheme Name:        My Theme\nVersion:           1.2.0\n*/\n", string(got))
		})
	}
}
