package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPxToRem(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"font-size", "h1{font-size:32px}", "h1{font-size:2rem}"},
		{"shorthand", "p { font: 12px/18px Arial; }", "p { font: 0.75rem/1.125rem Arial; }"},
		{"precision", "a{letter-spacing:1px}", "a{letter-spacing:0.0625rem}"},
		{"zero", "a{line-height:0px}", "a{line-height:0}"},
		{"other props untouched", "div{margin:16px;width:10px}", "div{margin:16px;width:10px}"},
		{"media query untouched", "@media (min-width:768px){a{font-size:8px}}", "@media (min-width:768px){a{font-size:0.5rem}}"},
		{"uppercase unit kept", "a{font-size:16PX}", "a{font-size:16PX}"},
		{"selector pseudo class", "a:hover{font-size:24px}", "a:hover{font-size:1.5rem}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, string(PxToRem([]byte(tc.in))))
		})
	}
}
