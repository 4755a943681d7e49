package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/themeforge/internal/config"
	"gopkg.in/yaml.v3"
)

// projectDTO is the shared wire shape of the YAML and TOML formats.
type projectDTO struct {
	Name        string   `yaml:"name" toml:"name"`
	URI         string   `yaml:"uri" toml:"uri"`
	Description string   `yaml:"description" toml:"description"`
	Tags        []string `yaml:"tags" toml:"tags"`
	RequiresWP  string   `yaml:"requires_wp" toml:"requires_wp"`
	TestedWP    string   `yaml:"tested_wp" toml:"tested_wp"`
	RequiresPHP string   `yaml:"requires_php" toml:"requires_php"`
	Version     string   `yaml:"version" toml:"version"`
	License     string   `yaml:"license" toml:"license"`
	LicenseURI  string   `yaml:"license_uri" toml:"license_uri"`
	TextDomain  string   `yaml:"text_domain" toml:"text_domain"`
	DevHost     string   `yaml:"dev_host" toml:"dev_host"`
	SassBinary  string   `yaml:"sass_binary" toml:"sass_binary"`
	Precompress bool     `yaml:"precompress" toml:"precompress"`
	Author      struct {
		Name string `yaml:"name" toml:"name"`
		URI  string `yaml:"uri" toml:"uri"`
	} `yaml:"author" toml:"author"`
	Dirs struct {
		Src    string `yaml:"src" toml:"src"`
		Static string `yaml:"static" toml:"static"`
		WP     string `yaml:"wp" toml:"wp"`
	} `yaml:"dirs" toml:"dirs"`
	Archives struct {
		WordPress string `yaml:"wordpress" toml:"wordpress"`
		Theme     string `yaml:"theme" toml:"theme"`
	} `yaml:"archives" toml:"archives"`
}

func (d *projectDTO) toModel() *config.Project {
	return &config.Project{
		Name:        d.Name,
		URI:         d.URI,
		Author:      config.Author{Name: d.Author.Name, URI: d.Author.URI},
		Description: d.Description,
		Tags:        d.Tags,
		RequiresWP:  d.RequiresWP,
		TestedWP:    d.TestedWP,
		RequiresPHP: d.RequiresPHP,
		Version:     d.Version,
		License:     d.License,
		LicenseURI:  d.LicenseURI,
		TextDomain:  d.TextDomain,
		DevHost:     d.DevHost,
		Dirs:        config.Dirs{Src: d.Dirs.Src, Static: d.Dirs.Static, WP: d.Dirs.WP},
		Archives:    config.Archives{WordPress: d.Archives.WordPress, Theme: d.Archives.Theme},
		SassBinary:  d.SassBinary,
		Precompress: d.Precompress,
	}
}

// YAMLLoader reads themeforge.yaml files.
type YAMLLoader struct{}

// Load implements config.Loader.
func (l *YAMLLoader) Load(_ context.Context, path string) (*config.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dto projectDTO
	dec := yaml.NewDecoder(bytesReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return dto.toModel(), nil
}
