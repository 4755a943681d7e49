package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/themeforge/internal/composer"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/devserver"
	"github.com/vk/themeforge/internal/loader"
	"github.com/vk/themeforge/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	env      *registry.Env
	composer *composer.Composer
	server   *devserver.Server
}

// NewApp is the constructor for the main application. It loads the project
// metadata and returns a fully initialized App, including its own isolated
// logger and registry. With no modules given the core modules are used.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	project, root, err := loader.Load(ctx, cfg.ProjectPath, cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	env := registry.NewEnv(root, project, cfg.Mode)
	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: registry.New(),
		env:      env,
	}
	a.server = devserver.New(env, devserver.Options{Port: cfg.Port})

	if len(modules) == 0 {
		modules = coreModules()
	}
	for _, mod := range modules {
		mod.Register(a.registry)
	}
	(&devModule{app: a}).Register(a.registry)
	logger.Debug("All modules registered.", "count", len(modules)+1, "tasks", len(a.registry.Names()))

	a.composer = composer.New(a.registry, env, cfg.WorkerCount)
	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Env returns the run environment. This is primarily for testing.
func (a *App) Env() *registry.Env {
	return a.env
}
