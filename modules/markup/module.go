package markup

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Renderer overrides the php interpreter.
	Renderer Renderer
}

func (m *Module) renderer() Renderer {
	if m.Renderer == nil {
		return PHPRenderer{}
	}
	return m.Renderer
}

// onRunHTML renders each PHP template into an HTML page in the static dir.
func (m *Module) onRunHTML(ctx context.Context, env *registry.Env) error {
	logger := ctxlog.FromContext(ctx)
	cat := env.Paths.Markup
	files, err := pipeline.Sources(env, cat)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Debug("No templates to render.")
		return nil
	}

	base := pipeline.Base(cat.Src[0])
	r := m.renderer()
	pages, err := pipeline.Map(ctx, files, func(ctx context.Context, f string) (pipeline.File, error) {
		out, err := r.Render(ctx, env.Abs(f))
		if err != nil {
			return pipeline.File{}, err
		}
		if env.Mode.Production {
			if out, err = pipeline.Minify(pipeline.MediaHTML, out); err != nil {
				return pipeline.File{}, fmt.Errorf("minifying %s: %w", f, err)
			}
		}
		name := strings.TrimSuffix(pipeline.Rel(base, f), ".php") + ".html"
		return pipeline.File{Name: name, Data: out}, nil
	})
	if err != nil {
		return err
	}

	if err := pipeline.Publish(ctx, env, cat.Dest, pages, pipeline.PublishOptions{}); err != nil {
		return err
	}
	logger.Debug("Templates rendered.", "count", len(pages))
	env.Reloader.Reload(ctx, registry.ReloadFull, cat.Dest)
	return nil
}

// Register registers the html task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskHTML, &registry.RegisteredTask{
		Description: "Render PHP templates to static HTML",
		Fn:          m.onRunHTML,
	})
}
