package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	mode config.Mode
}

// NewLoader creates a loader whose expressions can read the mode flags.
func NewLoader(mode config.Mode) *Loader {
	return &Loader{mode: mode}
}

// Load parses and decodes the project file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(l.mode), &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if root.Project == nil {
		return nil, errors.New("no project block found in " + path)
	}

	p := translateProject(root.Project)
	logger.Debug("HCL loading complete.", "project", p.Name)
	return p, nil
}

// translateProject converts the HCL schema into the agnostic model.
func translateProject(b *projectBlock) *config.Project {
	p := &config.Project{
		Name:        b.Name,
		URI:         b.URI,
		Description: b.Description,
		Tags:        b.Tags,
		RequiresWP:  b.RequiresWP,
		TestedWP:    b.TestedWP,
		RequiresPHP: b.RequiresPHP,
		Version:     b.Version,
		License:     b.License,
		LicenseURI:  b.LicenseURI,
		TextDomain:  b.TextDomain,
		DevHost:     b.DevHost,
		SassBinary:  b.SassBinary,
		Precompress: b.Precompress,
	}
	if b.Author != nil {
		p.Author = config.Author{Name: b.Author.Name, URI: b.Author.URI}
	}
	if b.Dirs != nil {
		p.Dirs = config.Dirs{Src: b.Dirs.Src, Static: b.Dirs.Static, WP: b.Dirs.WP}
	}
	if b.Archives != nil {
		p.Archives = config.Archives{WordPress: b.Archives.WordPress, Theme: b.Archives.Theme}
	}
	return p
}
