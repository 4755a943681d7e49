package fonts

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunFonts copies font files that are newer than their destination.
func OnRunFonts(ctx context.Context, env *registry.Env) error {
	cat := env.Paths.Fonts
	files, err := pipeline.Sources(env, cat)
	if err != nil {
		return err
	}
	base := pipeline.Base(cat.Src[0])
	changed, err := pipeline.Newer(env, files, base, cat.Dest)
	if err != nil {
		return err
	}
	for _, f := range changed {
		data, err := os.ReadFile(env.Abs(f))
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		if err := pipeline.WriteFile(env, path.Join(cat.Dest, pipeline.Rel(base, f)), data); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Fonts copied.", "count", len(changed), "total", len(files))
	return nil
}

// Register registers the fonts task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskFonts, &registry.RegisteredTask{
		Description: "Copy fonts",
		Fn:          OnRunFonts,
	})
}
