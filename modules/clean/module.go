package clean

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunCleanAssets removes the generated asset directories' contents.
func OnRunCleanAssets(ctx context.Context, env *registry.Env) error {
	fsys := os.DirFS(env.Root)
	removed := 0
	for _, pattern := range env.Paths.Clean {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return fmt.Errorf("expanding %s: %w", pattern, err)
		}
		for _, m := range matches {
			if err := os.RemoveAll(env.Abs(m)); err != nil {
				return fmt.Errorf("removing %s: %w", m, err)
			}
			removed++
		}
	}
	ctxlog.FromContext(ctx).Debug("Assets cleaned.", "removed", removed)
	return nil
}

// Register registers the clean_assets task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskCleanAssets, &registry.RegisteredTask{
		Description: "Remove generated assets",
		Fn:          OnRunCleanAssets,
	})
}
