package hcl

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/themeforge/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// envFunc reads an environment variable, falling back to an optional
// default and then to the empty string.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if v, ok := os.LookupEnv(args[0].AsString()); ok {
			return cty.StringVal(v), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return cty.StringVal(""), nil
	},
})

// evalContext builds the scope project expressions are evaluated in.
func evalContext(mode config.Mode) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"production": cty.BoolVal(mode.Production),
			"static":     cty.BoolVal(mode.Static),
		},
		Functions: map[string]function.Function{
			"env":      envFunc,
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"join":     stdlib.JoinFunc,
			"format":   stdlib.FormatFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}
