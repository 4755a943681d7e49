package styles

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

const (
	rootValue     = 16
	unitPrecision = 5
)

// remProps are the declarations whose px values become rem.
var remProps = map[string]bool{
	"font":           true,
	"font-size":      true,
	"line-height":    true,
	"letter-spacing": true,
}

// PxToRem rewrites px lengths of the typography properties into rem units
// relative to a 16px root. Other tokens are copied unchanged.
func PxToRem(src []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(src))

	l := css.NewLexer(parse.NewInputBytes(src))
	var (
		candidate string
		prop      string
		inValue   bool
	)
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return out.Bytes()
		case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken:
			candidate, prop, inValue = "", "", false
		case css.IdentToken:
			if !inValue {
				candidate = string(data)
			}
		case css.ColonToken:
			if !inValue && candidate != "" {
				prop = strings.ToLower(candidate)
				inValue = true
			}
		case css.DimensionToken:
			if inValue && remProps[prop] {
				if rem, ok := convert(data); ok {
					out.WriteString(rem)
					continue
				}
			}
		}
		out.Write(data)
	}
}

func convert(dim []byte) (string, bool) {
	s := string(dim)
	if !strings.HasSuffix(s, "px") {
		return "", false
	}
	px, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return "", false
	}
	scale := math.Pow(10, unitPrecision)
	v := math.Round(px/rootValue*scale) / scale
	if v == 0 {
		return "0", true
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "rem", true
}
