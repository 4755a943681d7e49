package wordpress

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/vk/themeforge/internal/archive"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/paths"
	"github.com/vk/themeforge/internal/registry"
)

// unusedFiles are removed from a fresh install, relative to the WP dir.
var unusedFiles = []string{"license.txt", "readme.html"}

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunDownloadWP fetches the WordPress release archive into downloads/.
func OnRunDownloadWP(ctx context.Context, env *registry.Env) error {
	d := archive.NewDownloader()
	defer d.Close()
	_, err := d.Fetch(ctx, env.Project.Archives.WordPress, env.Abs(paths.DownloadsDir))
	return err
}

// OnRunCreateWPDir ensures the install directory exists.
func OnRunCreateWPDir(ctx context.Context, env *registry.Env) error {
	dir := env.Abs(env.Project.Dirs.WP)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	ctxlog.FromContext(ctx).Debug("WordPress directory ready.", "path", dir)
	return nil
}

// OnRunUnzipWP unpacks the downloaded release into the install directory.
func OnRunUnzipWP(ctx context.Context, env *registry.Env) error {
	src := env.Abs(path.Join(paths.DownloadsDir, archive.FileName(env.Project.Archives.WordPress)))
	dest := env.Abs(env.Project.Dirs.WP)
	if err := archive.Extract(src, dest, 1); err != nil {
		return fmt.Errorf("unpacking WordPress: %w", err)
	}
	ctxlog.FromContext(ctx).Info("📂 WordPress unpacked", "path", dest)
	return nil
}

// OnRunDeleteWPUnused removes the license, readme and bundled themes.
func OnRunDeleteWPUnused(ctx context.Context, env *registry.Env) error {
	wp := env.Abs(env.Project.Dirs.WP)
	for _, name := range unusedFiles {
		if err := os.Remove(filepath.Join(wp, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}

	themes := filepath.Join(wp, "wp-content", "themes")
	items, err := os.ReadDir(themes)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing themes: %w", err)
	}
	for _, item := range items {
		if err := os.RemoveAll(filepath.Join(themes, item.Name())); err != nil {
			return fmt.Errorf("removing theme %s: %w", item.Name(), err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Unused WordPress files removed.", "themes", len(items))
	return nil
}

// Register registers the WordPress install tasks with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskDownloadWP, &registry.RegisteredTask{
		Description: "Download the WordPress release archive",
		Fn:          OnRunDownloadWP,
	})
	r.RegisterTask(registry.TaskCreateWPDir, &registry.RegisteredTask{
		Description: "Create the WordPress install directory",
		Fn:          OnRunCreateWPDir,
	})
	r.RegisterTask(registry.TaskUnzipWP, &registry.RegisteredTask{
		Description: "Unpack WordPress",
		Fn:          OnRunUnzipWP,
	})
	r.RegisterTask(registry.TaskDeleteWPUnused, &registry.RegisteredTask{
		Description: "Remove unused WordPress files and themes",
		Fn:          OnRunDeleteWPUnused,
	})
}
