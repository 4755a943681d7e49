// Package header renders the WordPress theme header that heads style.css.
package header

import (
	"strings"

	"github.com/vk/themeforge/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keyWidth is the padded width of the "Key:" column.
const keyWidth = 19

var titler = cases.Title(language.Und, cases.NoLower)

// Humanize turns a package-style name into a display name:
// "my_cool-theme" becomes "My Cool Theme".
func Humanize(name string) string {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return titler.String(spaced)
}

// Render returns the header lines for the project. The name line is always
// present; every other line appears only when its field is set.
func Render(p *config.Project) string {
	var b strings.Builder
	line := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(strings.Repeat(" ", max(1, keyWidth-len(key)-1)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("Theme Name", Humanize(p.Name))
	line("Theme URI", p.URI)
	line("Author", p.Author.Name)
	line("Author URI", p.Author.URI)
	line("Description", p.Description)
	line("Tags", strings.Join(p.Tags, ","))
	line("Requires at least", p.RequiresWP)
	line("Tested up to", p.TestedWP)
	line("Requires PHP", p.RequiresPHP)
	line("Version", p.Version)
	line("License", p.License)
	line("License URI", p.LicenseURI)
	line("Text Domain", p.TextDomain)
	return b.String()
}

// Stylesheet wraps the header in the comment block WordPress reads.
func Stylesheet(p *config.Project) []byte {
	return []byte("/*\n" + Render(p) + "*/\n")
}
