package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vk/themeforge/internal/paths"
	"github.com/vk/themeforge/internal/registry"
)

// Glob expands include patterns against the project root and removes every
// match of an exclude pattern. Results are sorted slash paths relative to
// the root. Patterns whose base directory does not exist match nothing.
func Glob(env *registry.Env, include, exclude []string) ([]string, error) {
	fsys := os.DirFS(env.Root)
	seen := make(map[string]struct{})
	var out []string

	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("expanding %s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			excluded, err := matchAny(exclude, m)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Sources returns the non-vendor files of a category.
func Sources(env *registry.Env, c paths.Category) ([]string, error) {
	return Glob(env, c.Src, c.Exclude)
}

// VendorSources returns the vendor files of a category.
func VendorSources(env *registry.Env, c paths.Category) ([]string, error) {
	return Glob(env, c.Vendor, nil)
}

// Matches reports whether a project-relative path is selected by the
// include patterns and not removed by the excludes.
func Matches(include, exclude []string, name string) (bool, error) {
	ok, err := matchAny(include, name)
	if err != nil || !ok {
		return false, err
	}
	excluded, err := matchAny(exclude, name)
	if err != nil {
		return false, err
	}
	return !excluded, nil
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("bad pattern %s: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Base returns the static prefix of a glob pattern, the directory that
// relative output names are computed from.
func Base(pattern string) string {
	base, _ := doublestar.SplitPattern(pattern)
	return base
}

// Rel returns name relative to base, both slash paths.
func Rel(base, name string) string {
	if base == "." || base == "" {
		return name
	}
	if len(name) > len(base) && name[:len(base)] == base && name[len(base)] == '/' {
		return name[len(base)+1:]
	}
	return path.Base(name)
}

// Newer keeps the sources whose destination copy is missing or older.
// The destination of a source is dest joined with its path below base.
func Newer(env *registry.Env, files []string, base, dest string) ([]string, error) {
	var out []string
	for _, f := range files {
		src, err := os.Stat(env.Abs(f))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", f, err)
		}
		dst, err := os.Stat(env.Abs(path.Join(dest, Rel(base, f))))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			out = append(out, f)
		case err != nil:
			return nil, fmt.Errorf("stat destination of %s: %w", f, err)
		case src.ModTime().After(dst.ModTime()):
			out = append(out, f)
		}
	}
	return out, nil
}
