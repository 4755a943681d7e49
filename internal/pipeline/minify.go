package pipeline

import (
	"regexp"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

// Media types accepted by Minify.
const (
	MediaHTML = "text/html"
	MediaSVG  = "image/svg+xml"
)

var (
	minifierOnce sync.Once
	minifier     *minify.M
)

// Minify minifies markup of the given media type. Inline styles and
// scripts inside HTML and SVG are minified too.
func Minify(mediatype string, data []byte) ([]byte, error) {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/css", css.Minify)
		minifier.AddFunc(MediaHTML, html.Minify)
		minifier.AddFunc(MediaSVG, svg.Minify)
		minifier.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	})
	return minifier.Bytes(mediatype, data)
}
