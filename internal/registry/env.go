package registry

import (
	"context"
	"path/filepath"

	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/manifest"
	"github.com/vk/themeforge/internal/paths"
)

// Reload kinds understood by the browser snippet.
const (
	ReloadCSS  = "css"
	ReloadFull = "full"
)

// Reloader notifies connected browsers that output changed.
type Reloader interface {
	Reload(ctx context.Context, kind, path string)
}

// NopReloader ignores notifications. It is used outside the dev loop.
type NopReloader struct{}

// Reload implements Reloader.
func (NopReloader) Reload(context.Context, string, string) {}

// Env is the read-only run environment handed to every task.
type Env struct {
	// Root is the absolute project root; Paths are relative to it.
	Root     string
	Project  *config.Project
	Mode     config.Mode
	Paths    *paths.Set
	Manifest *manifest.Manifest
	Reloader Reloader
}

// NewEnv resolves paths for the project and wires the shared manifest.
func NewEnv(root string, project *config.Project, mode config.Mode) *Env {
	set := paths.Resolve(project, mode)
	return &Env{
		Root:     root,
		Project:  project,
		Mode:     mode,
		Paths:    set,
		Manifest: manifest.New(filepath.Join(root, filepath.FromSlash(set.Manifest))),
		Reloader: NopReloader{},
	}
}

// Abs converts a project-relative slash path into an OS path.
func (e *Env) Abs(rel string) string {
	return filepath.Join(e.Root, filepath.FromSlash(rel))
}

// Handler is the signature of every task.
type Handler func(ctx context.Context, env *Env) error
