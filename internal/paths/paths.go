// Package paths resolves the source globs and destination directories of
// every asset category from the project metadata and the mode flags.
//
// All paths are slash-separated and relative to the project root so they
// can be matched against an fs.FS rooted there.
package paths

import (
	"path"

	"github.com/vk/themeforge/internal/config"
)

// ManifestFile is the name of the rev manifest written into the dist dir.
const ManifestFile = "rev-manifest.json"

// DownloadsDir receives downloaded archives.
const DownloadsDir = "downloads"

// Category is the source/destination mapping for one asset type.
type Category struct {
	// Src holds the include patterns.
	Src []string
	// Exclude holds patterns removed from Src matches.
	Exclude []string
	// Vendor holds third-party sources processed separately, if any.
	Vendor []string
	// Dest is the output directory.
	Dest string
}

// Set is the complete path layout for one process.
type Set struct {
	Src      string
	Static   string
	Theme    string
	Dist     string
	Manifest string

	Styles  Category
	Scripts Category
	Markup  Category
	Fonts   Category
	Images  Category

	// Clean lists the globs removed by the clean task.
	Clean []string
	// ThemeSource is the starter theme tree copied into Theme.
	ThemeSource string
	// ThemePHP matches template files that only need a browser reload.
	ThemePHP string
}

// ThemeDir returns the WordPress theme directory for a project.
func ThemeDir(p *config.Project) string {
	return path.Join(p.Dirs.WP, "wp-content", "themes", p.Name)
}

// Dist returns the output root: the static dir in static mode and the
// theme dir otherwise.
func Dist(p *config.Project, mode config.Mode) string {
	if mode.Static {
		return path.Clean(p.Dirs.Static)
	}
	return ThemeDir(p)
}

// Resolve computes the path set. It has no side effects and cannot fail.
func Resolve(p *config.Project, mode config.Mode) *Set {
	src := path.Clean(p.Dirs.Src)
	static := path.Clean(p.Dirs.Static)
	theme := ThemeDir(p)
	dist := Dist(p, mode)

	return &Set{
		Src:      src,
		Static:   static,
		Theme:    theme,
		Dist:     dist,
		Manifest: path.Join(dist, ManifestFile),
		Styles: Category{
			Src:     []string{path.Join(src, "styles/**/*.{scss,sass}")},
			Exclude: []string{path.Join(src, "styles/vendor/**")},
			Vendor:  []string{path.Join(src, "styles/vendor/**/*.css")},
			Dest:    path.Join(dist, "styles"),
		},
		Scripts: Category{
			Src:     []string{path.Join(src, "scripts/**/*.js")},
			Exclude: []string{path.Join(src, "scripts/vendor/**")},
			Vendor:  []string{path.Join(src, "scripts/vendor/**/*.js")},
			Dest:    path.Join(dist, "scripts"),
		},
		Markup: Category{
			Src:  []string{path.Join(src, "php/**/*.php")},
			Dest: static,
		},
		Fonts: Category{
			Src:  []string{path.Join(src, "fonts/**/*.{svg,ttf,woff,woff2,eot}")},
			Dest: path.Join(dist, "fonts"),
		},
		Images: Category{
			Src:  []string{path.Join(src, "images/**/*.{png,jpg,jpeg,gif,svg}")},
			Dest: path.Join(dist, "images"),
		},
		Clean: []string{
			path.Join(dist, "styles/*"),
			path.Join(dist, "scripts/*"),
			path.Join(dist, "images/*"),
			path.Join(dist, "fonts/*"),
		},
		ThemeSource: path.Join(src, "theme"),
		ThemePHP:    path.Join(theme, "**/*.php"),
	}
}
