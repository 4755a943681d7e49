package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/manifest"
	"github.com/vk/themeforge/internal/registry"
)

// File is one transform output.
type File struct {
	// Name is the logical file name relative to the destination directory.
	Name string
	Data []byte
}

// PublishOptions tunes Publish.
type PublishOptions struct {
	// Rev enables content-hashed names and manifest entries. Publish still
	// skips revisioning in static mode.
	Rev bool
	// Reload is the reload kind to broadcast; empty means no notification.
	Reload string
}

// Publish writes outputs into dest, a project-relative directory. With
// revisioning on, each name gets its content hash and the manifest is
// merged with the new logical-to-hashed mapping.
func Publish(ctx context.Context, env *registry.Env, dest string, files []File, opts PublishOptions) error {
	if len(files) == 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	rev := opts.Rev && !env.Mode.Static
	entries := make(map[string]string)

	for _, f := range files {
		name := f.Name
		if rev {
			name = manifest.Revision(f.Name, f.Data)
			entries[distKey(env, dest, f.Name)] = distKey(env, dest, name)
		}
		target := path.Join(dest, name)
		if err := WriteFile(env, target, f.Data); err != nil {
			return err
		}
		if env.Project.Precompress && env.Mode.Production && compressible(name) {
			if err := precompress(env, target, f.Data); err != nil {
				return err
			}
		}
		logger.Debug("Wrote asset.", "path", target, "bytes", len(f.Data))

		if opts.Reload != "" {
			env.Reloader.Reload(ctx, opts.Reload, target)
		}
	}

	if err := env.Manifest.Merge(entries); err != nil {
		return fmt.Errorf("updating manifest: %w", err)
	}
	return nil
}

// WriteFile writes data to a project-relative path, creating parents.
func WriteFile(env *registry.Env, rel string, data []byte) error {
	abs := env.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// Concat joins file contents with newlines, in order.
func Concat(env *registry.Env, files []string) ([]byte, error) {
	var buf bytes.Buffer
	for i, f := range files {
		data, err := os.ReadFile(env.Abs(f))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// distKey makes a manifest key relative to the dist directory.
func distKey(env *registry.Env, dest, name string) string {
	full := path.Join(dest, name)
	return strings.TrimPrefix(full, env.Paths.Dist+"/")
}

func compressible(name string) bool {
	switch path.Ext(name) {
	case ".css", ".js", ".html", ".svg":
		return true
	}
	return false
}

func precompress(env *registry.Env, target string, data []byte) error {
	var gz bytes.Buffer
	zw, err := gzip.NewWriterLevel(&gz, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("gzip %s: %w", target, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("gzip %s: %w", target, err)
	}
	if err := WriteFile(env, target+".gz", gz.Bytes()); err != nil {
		return err
	}

	var br bytes.Buffer
	bw := brotli.NewWriterLevel(&br, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("brotli %s: %w", target, err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("brotli %s: %w", target, err)
	}
	return WriteFile(env, target+".br", br.Bytes())
}
