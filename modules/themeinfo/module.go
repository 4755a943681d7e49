package themeinfo

import (
	"context"
	"path"

	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/header"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// FileName is the stylesheet WordPress reads theme metadata from.
const FileName = "style.css"

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunCreateThemeInfo writes the theme header stylesheet into dist.
func OnRunCreateThemeInfo(ctx context.Context, env *registry.Env) error {
	target := path.Join(env.Paths.Dist, FileName)
	if err := pipeline.WriteFile(env, target, header.Stylesheet(env.Project)); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("📝 Theme header written", "path", target)
	return nil
}

// Register registers the create_themeinfo task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskCreateThemeInfo, &registry.RegisteredTask{
		Description: "Write the theme header stylesheet",
		Fn:          OnRunCreateThemeInfo,
	})
}
