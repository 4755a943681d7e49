package starter

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/vk/themeforge/internal/archive"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/dag"
	"github.com/vk/themeforge/internal/paths"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunDownloadSrc fetches the starter theme archive. Without a configured
// archive the task is skipped, and so is the rest of the scaffold.
func OnRunDownloadSrc(ctx context.Context, env *registry.Env) error {
	url := env.Project.Archives.Theme
	if url == "" {
		ctxlog.FromContext(ctx).Error("❌ No theme archive defined, skipping scaffold")
		return fmt.Errorf("%w: no theme archive defined", dag.ErrSkip)
	}
	d := archive.NewDownloader()
	defer d.Close()
	_, err := d.Fetch(ctx, url, env.Abs(paths.DownloadsDir))
	return err
}

// OnRunSrcUnzip unpacks the starter archive into the source directory.
func OnRunSrcUnzip(ctx context.Context, env *registry.Env) error {
	src := env.Abs(path.Join(paths.DownloadsDir, archive.FileName(env.Project.Archives.Theme)))
	if err := archive.Extract(src, env.Abs(env.Paths.Src), 1); err != nil {
		return fmt.Errorf("unpacking starter: %w", err)
	}
	ctxlog.FromContext(ctx).Info("📂 Starter unpacked", "path", env.Paths.Src)
	return nil
}

// OnRunSrcMove copies the starter's theme files into the theme directory.
func OnRunSrcMove(ctx context.Context, env *registry.Env) error {
	files, err := pipeline.Glob(env, []string{path.Join(env.Paths.ThemeSource, "**/*")}, nil)
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := os.ReadFile(env.Abs(f))
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		target := path.Join(env.Paths.Theme, pipeline.Rel(env.Paths.ThemeSource, f))
		if err := pipeline.WriteFile(env, target, data); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Theme files moved.", "count", len(files), "dest", env.Paths.Theme)
	return nil
}

// Register registers the scaffold tasks with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskDownloadSrc, &registry.RegisteredTask{
		Description: "Download the starter theme archive",
		Fn:          OnRunDownloadSrc,
	})
	r.RegisterTask(registry.TaskSrcUnzip, &registry.RegisteredTask{
		Description: "Unpack the starter into the source directory",
		Fn:          OnRunSrcUnzip,
	})
	r.RegisterTask(registry.TaskSrcMove, &registry.RegisteredTask{
		Description: "Copy starter theme files into the theme directory",
		Fn:          OnRunSrcMove,
	})
}
