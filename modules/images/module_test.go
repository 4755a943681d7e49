package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/registry"
	"github.com/vk/themeforge/internal/testutil"
)

func fatPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

func setup(t *testing.T, mode config.Mode, files map[string][]byte) *registry.Env {
	t.Helper()
	text := make(map[string]string, len(files))
	for name, content := range files {
		text[name] = string(content)
	}
	return testutil.NewEnv(t, mode, text)
}

func TestImages_ProductionOptimizesAndCaches(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	raw := fatPNG(t)
	env := setup(t, config.Mode{Production: true, Static: true}, map[string][]byte{
		"src/images/icons/dot.png": raw,
		"src/images/logo.svg":      []byte(`<svg xmlns="http://www.w3.org/2000/svg">  <!-- logo -->  <circle r="4"/></svg>`),
		"src/images/photo.jpg":     []byte("jpeg-bytes"),
	})

	// --- Act ---
	err := OnRunImages(context.Background(), env)

	// --- Assert ---
	require.NoError(t, err)
	out, err := os.ReadFile(env.Abs("static/images/icons/dot.png"))
	require.NoError(t, err)
	assert.Less(t, len(out), len(raw))
	_, err = png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	svg, err := os.ReadFile(env.Abs("static/images/logo.svg"))
	require.NoError(t, err)
	assert.NotContains(t, string(svg), "logo -->")

	jpg, err := os.ReadFile(env.Abs("static/images/photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(jpg))

	cached, err := os.ReadDir(env.Abs(CacheDir))
	require.NoError(t, err)
	assert.Len(t, cached, 3)
}

func TestImages_DevelopmentCopiesOnlyChanged(t *testing.T) {
	t.Parallel()

	env := setup(t, config.Mode{Static: true}, map[string][]byte{
		"src/images/a.gif": []byte("gif"),
	})
	require.NoError(t, OnRunImages(context.Background(), env))
	got, err := os.ReadFile(env.Abs("static/images/a.gif"))
	require.NoError(t, err)
	assert.Equal(t, "gif", string(got))

	// A newer destination is left alone.
	require.NoError(t, os.WriteFile(env.Abs("static/images/a.gif"), []byte("edited"), 0o644))
	require.NoError(t, OnRunImages(context.Background(), env))
	got, err = os.ReadFile(env.Abs("static/images/a.gif"))
	require.NoError(t, err)
	assert.Equal(t, "edited", string(got))
	assert.NoDirExists(t, env.Abs(CacheDir))
}

func TestImages_EmptyCategory(t *testing.T) {
	t.Parallel()

	env := setup(t, config.Mode{Production: true}, nil)

	require.NoError(t, OnRunImages(context.Background(), env))
	assert.NoDirExists(t, env.Abs(env.Paths.Images.Dest))
}

func TestOptimize_KeepsSmallerInput(t *testing.T) {
	t.Parallel()

	_, err := Optimize("broken.png", []byte("not a png"))
	require.Error(t, err)

	out, err := Optimize("x.webp", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(out))
}
