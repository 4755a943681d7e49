package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/vk/themeforge/internal/config"
)

// TOMLLoader reads themeforge.toml files.
type TOMLLoader struct{}

// Load implements config.Loader.
func (l *TOMLLoader) Load(_ context.Context, path string) (*config.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dto projectDTO
	dec := toml.NewDecoder(bytesReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return dto.toModel(), nil
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
