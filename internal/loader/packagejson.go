package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/vk/themeforge/internal/config"
)

// PackageJSONLoader reads theme metadata from an npm package.json using the
// field layout used by WordPress theme starters (zips, dir, devhost, requiresWP...).
type PackageJSONLoader struct{}

type jsonField struct {
	path string
	set  func(p *config.Project, v any)
}

func str(dst func(p *config.Project) *string) func(*config.Project, any) {
	return func(p *config.Project, v any) {
		if s, ok := v.(string); ok {
			*dst(p) = s
		}
	}
}

var packageFields = []jsonField{
	{"$.name", str(func(p *config.Project) *string { return &p.Name })},
	{"$.uri", str(func(p *config.Project) *string { return &p.URI })},
	{"$.description", str(func(p *config.Project) *string { return &p.Description })},
	{"$.requiresWP", str(func(p *config.Project) *string { return &p.RequiresWP })},
	{"$.testedWP", str(func(p *config.Project) *string { return &p.TestedWP })},
	{"$.requiresPHP", str(func(p *config.Project) *string { return &p.RequiresPHP })},
	{"$.version", str(func(p *config.Project) *string { return &p.Version })},
	{"$.license", str(func(p *config.Project) *string { return &p.License })},
	{"$.licenseUri", str(func(p *config.Project) *string { return &p.LicenseURI })},
	{"$.textdomain", str(func(p *config.Project) *string { return &p.TextDomain })},
	{"$.devhost", str(func(p *config.Project) *string { return &p.DevHost })},
	{"$.author.name", str(func(p *config.Project) *string { return &p.Author.Name })},
	{"$.author.url", str(func(p *config.Project) *string { return &p.Author.URI })},
	{"$.author.uri", str(func(p *config.Project) *string { return &p.Author.URI })},
	{"$.dir.src", str(func(p *config.Project) *string { return &p.Dirs.Src })},
	{"$.dir.static", str(func(p *config.Project) *string { return &p.Dirs.Static })},
	{"$.dir.wp", str(func(p *config.Project) *string { return &p.Dirs.WP })},
	{"$.zips.wordpress", str(func(p *config.Project) *string { return &p.Archives.WordPress })},
	{"$.zips.theme", str(func(p *config.Project) *string { return &p.Archives.Theme })},
	{"$.themeforge.sassBinary", str(func(p *config.Project) *string { return &p.SassBinary })},
	{"$.themeforge.precompress", func(p *config.Project, v any) {
		if b, ok := v.(bool); ok {
			p.Precompress = b
		}
	}},
	{"$.tags", func(p *config.Project, v any) {
		switch tags := v.(type) {
		case []any:
			for _, t := range tags {
				if s, ok := t.(string); ok {
					p.Tags = append(p.Tags, s)
				}
			}
		case string:
			for _, t := range strings.Split(tags, ",") {
				if t = strings.TrimSpace(t); t != "" {
					p.Tags = append(p.Tags, t)
				}
			}
		}
	}},
	// npm also allows "Name <email> (url)" as a plain string.
	{"$.author", func(p *config.Project, v any) {
		if s, ok := v.(string); ok && p.Author.Name == "" {
			name, _, _ := strings.Cut(s, "<")
			p.Author.Name = strings.TrimSpace(name)
		}
	}},
}

// Load implements config.Loader.
func (l *PackageJSONLoader) Load(_ context.Context, path string) (*config.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}

	p := &config.Project{}
	for _, f := range packageFields {
		// A lookup error means the key is absent; the field stays empty.
		v, err := jsonpath.Get(f.path, doc)
		if err != nil || v == nil {
			continue
		}
		f.set(p, v)
	}
	return p, nil
}
