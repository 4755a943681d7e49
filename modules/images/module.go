package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/manifest"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// CacheDir holds optimized images keyed by the hash of their source.
const CacheDir = ".themeforge-cache/images"

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunImages copies changed images into the dist dir. Production builds
// optimize them first, reusing earlier results from the cache.
func OnRunImages(ctx context.Context, env *registry.Env) error {
	logger := ctxlog.FromContext(ctx)
	cat := env.Paths.Images
	files, err := pipeline.Sources(env, cat)
	if err != nil {
		return err
	}
	base := pipeline.Base(cat.Src[0])
	changed, err := pipeline.Newer(env, files, base, cat.Dest)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		logger.Debug("Images are up to date.", "total", len(files))
		return nil
	}

	saved, err := pipeline.Map(ctx, changed, func(ctx context.Context, f string) (int, error) {
		data, err := os.ReadFile(env.Abs(f))
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", f, err)
		}
		out := data
		if env.Mode.Production {
			if out, err = cachedOptimize(env, f, data); err != nil {
				return 0, err
			}
		}
		if err := pipeline.WriteFile(env, path.Join(cat.Dest, pipeline.Rel(base, f)), out); err != nil {
			return 0, err
		}
		return len(data) - len(out), nil
	})
	if err != nil {
		return err
	}

	total := 0
	for _, n := range saved {
		total += n
	}
	logger.Info("🖼️ Images written", "count", len(changed), "bytes_saved", total)
	return nil
}

func cachedOptimize(env *registry.Env, file string, data []byte) ([]byte, error) {
	key := path.Join(CacheDir, manifest.Hash(data)+strings.ToLower(path.Ext(file)))
	cached, err := os.ReadFile(env.Abs(key))
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading image cache: %w", err)
	}
	out, err := Optimize(file, data)
	if err != nil {
		return nil, err
	}
	if err := pipeline.WriteFile(env, key, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Optimize shrinks one image. PNGs are re-encoded at best compression and
// SVGs minified; the smaller of input and output wins. Other formats pass
// through.
func Optimize(name string, data []byte) ([]byte, error) {
	var out []byte
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		out = buf.Bytes()
	case ".svg":
		minified, err := pipeline.Minify(pipeline.MediaSVG, data)
		if err != nil {
			return nil, fmt.Errorf("minifying %s: %w", name, err)
		}
		out = minified
	default:
		return data, nil
	}
	if len(out) >= len(data) {
		return data, nil
	}
	return out, nil
}

// Register registers the images task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskImages, &registry.RegisteredTask{
		Description: "Copy and optimize images",
		Fn:          OnRunImages,
	})
}
