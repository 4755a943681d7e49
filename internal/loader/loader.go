package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/hcl"
)

// ErrNoProjectFile is returned by Discover when a directory holds none of
// the known project file names.
var ErrNoProjectFile = errors.New("no project file found")

// candidates lists project file names in lookup order.
var candidates = []string{
	"themeforge.hcl",
	"themeforge.yaml",
	"themeforge.yml",
	"themeforge.toml",
	"package.json",
}

// Discover resolves a path to a project file. A file path is returned
// unchanged; a directory is searched for the candidate names.
func Discover(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range candidates {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("error accessing path %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoProjectFile, path, strings.Join(candidates, ", "))
}

// ForPath returns the loader for the file's extension.
func ForPath(path string, mode config.Mode) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hcl.NewLoader(mode), nil
	case ".yaml", ".yml":
		return &YAMLLoader{}, nil
	case ".toml":
		return &TOMLLoader{}, nil
	case ".json":
		return &PackageJSONLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported project file type %q", filepath.Ext(path))
	}
}

// Load discovers, loads, defaults and validates the project at path. It
// returns the project and the directory it lives in, which becomes the
// project root.
func Load(ctx context.Context, path string, mode config.Mode) (*config.Project, string, error) {
	logger := ctxlog.FromContext(ctx)

	file, err := Discover(path)
	if err != nil {
		return nil, "", err
	}
	root, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, "", err
	}

	envFile := filepath.Join(root, ".env")
	if _, err := os.Stat(envFile); err == nil {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil {
			return nil, "", fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		logger.Debug("Loaded environment file.", "path", envFile)
	}

	l, err := ForPath(file, mode)
	if err != nil {
		return nil, "", err
	}
	raw, err := l.Load(ctx, file)
	if err != nil {
		return nil, "", err
	}

	project := raw.WithDefaults()
	if err := project.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid project file %s: %w", file, err)
	}
	for _, w := range project.VersionWarnings() {
		logger.Warn("Project metadata warning.", "detail", w)
	}

	logger.Info("📦 Project loaded", "name", project.Name, "file", file, "mode", mode.String())
	return project, root, nil
}
