package app

import (
	"context"

	"github.com/vk/themeforge/internal/composer"
	"github.com/vk/themeforge/internal/registry"
	"github.com/vk/themeforge/internal/watcher"
)

// devModule registers the tasks that drive the development loop. They
// need the App's server and composer, so they live here and not in modules/.
type devModule struct {
	app *App
}

func (m *devModule) onRunServe(ctx context.Context, _ *registry.Env) error {
	return m.app.server.Start(ctx)
}

// onRunWatch blocks until the context ends.
func (m *devModule) onRunWatch(ctx context.Context, env *registry.Env) error {
	return watcher.New(env.Root, m.app.watchRules(), watcher.DefaultDebounce).Run(ctx)
}

func onRunReload(ctx context.Context, env *registry.Env) error {
	env.Reloader.Reload(ctx, registry.ReloadFull, "")
	return nil
}

// Register registers the dev loop tasks with the registry.
func (m *devModule) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskServe, &registry.RegisteredTask{
		Description: "Start the dev server and reload bridge",
		Fn:          m.onRunServe,
	})
	r.RegisterTask(registry.TaskWatch, &registry.RegisteredTask{
		Description: "Rebuild assets on change",
		Fn:          m.onRunWatch,
	})
	r.RegisterTask(registry.TaskReload, &registry.RegisteredTask{
		Description: "Reload connected browsers",
		Fn:          onRunReload,
	})
}

// watchRules maps source globs onto the operations they trigger.
func (a *App) watchRules() []watcher.Rule {
	p := a.env.Paths
	run := func(op composer.Op) watcher.Action {
		return func(ctx context.Context) error {
			_, err := a.composer.Run(ctx, op)
			return err
		}
	}
	return []watcher.Rule{
		{Name: registry.TaskScripts, Include: p.Scripts.Src, Exclude: p.Scripts.Exclude,
			Action: run(composer.Task(registry.TaskScripts))},
		{Name: registry.TaskStyles, Include: p.Styles.Src, Exclude: p.Styles.Exclude,
			Action: run(composer.Task(registry.TaskStyles))},
		{Name: registry.TaskFonts, Include: p.Fonts.Src,
			Action: run(composer.Series(composer.Task(registry.TaskFonts), composer.Task(registry.TaskReload)))},
		{Name: registry.TaskImages, Include: p.Images.Src,
			Action: run(composer.Series(composer.Task(registry.TaskImages), composer.Task(registry.TaskReload)))},
		{Name: registry.TaskHTML, Include: p.Markup.Src,
			Action: run(composer.Task(registry.TaskHTML))},
		{Name: "theme", Include: []string{p.ThemePHP},
			Action: run(composer.Task(registry.TaskReload))},
	}
}
