package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	DefaultSrcDir       = "src"
	DefaultStaticDir    = "static"
	DefaultWPDir        = "wordpress"
	DefaultDevHost      = "localhost:8080"
	DefaultSassBinary   = "sass"
	DefaultWordPressZip = "https://wordpress.org/latest.tar.gz"
)

// ErrMissingName is returned when a project file does not name the project.
var ErrMissingName = errors.New("project name is required")

// Project is the unified, format-agnostic representation of the project
// metadata file.
type Project struct {
	Name        string
	URI         string
	Author      Author
	Description string
	Tags        []string
	RequiresWP  string
	TestedWP    string
	RequiresPHP string
	Version     string
	License     string
	LicenseURI  string
	TextDomain  string
	DevHost     string
	Dirs        Dirs
	Archives    Archives
	SassBinary  string
	Precompress bool
}

// Author identifies the theme author.
type Author struct {
	Name string
	URI  string
}

// Dirs holds the top-level project directories.
type Dirs struct {
	Src    string
	Static string
	WP     string
}

// Archives holds the external archive URLs used by the install and
// scaffold operations. An empty Theme means no starter is configured.
type Archives struct {
	WordPress string
	Theme     string
}

// Mode holds the two independent flags that gate transform behaviour.
type Mode struct {
	Production bool
	Static     bool
}

// String renders the mode for log lines.
func (m Mode) String() string {
	env := "development"
	if m.Production {
		env = "production"
	}
	out := "themed"
	if m.Static {
		out = "static"
	}
	return env + "/" + out
}

// WithDefaults returns a copy of the project with empty directory, archive
// and tool settings filled in.
func (p Project) WithDefaults() *Project {
	if p.Dirs.Src == "" {
		p.Dirs.Src = DefaultSrcDir
	}
	if p.Dirs.Static == "" {
		p.Dirs.Static = DefaultStaticDir
	}
	if p.Dirs.WP == "" {
		p.Dirs.WP = DefaultWPDir
	}
	if p.DevHost == "" {
		p.DevHost = DefaultDevHost
	}
	if p.SassBinary == "" {
		p.SassBinary = DefaultSassBinary
	}
	if p.Archives.WordPress == "" {
		p.Archives.WordPress = DefaultWordPressZip
	}
	return &p
}

// Validate checks the fields that have no sensible default.
func (p *Project) Validate() error {
	if p == nil {
		return errors.New("project is nil")
	}
	if p.Name == "" {
		return ErrMissingName
	}
	for _, r := range p.Name {
		if r == '/' || r == '\\' {
			return fmt.Errorf("project name %q must not contain path separators", p.Name)
		}
	}
	for label, dir := range map[string]string{"src": p.Dirs.Src, "static": p.Dirs.Static, "wp": p.Dirs.WP} {
		if dir != "" && !filepath.IsLocal(dir) {
			return fmt.Errorf("%s directory %q must be a relative path inside the project", label, dir)
		}
	}
	return nil
}

// VersionWarnings reports version fields that do not look like
// MAJOR[.MINOR[.PATCH]] versions. They are never fatal.
func (p *Project) VersionWarnings() []string {
	var warnings []string
	check := func(field, value string) {
		if value == "" {
			return
		}
		if !semver.IsValid("v" + strings.TrimPrefix(value, "v")) {
			warnings = append(warnings, fmt.Sprintf("%s %q is not a valid version", field, value))
		}
	}
	check("version", p.Version)
	check("requires_wp", p.RequiresWP)
	check("tested_wp", p.TestedWP)
	check("requires_php", p.RequiresPHP)
	return warnings
}
