package styles

import (
	"context"
	"fmt"

	"github.com/bep/godartsass/v2"
)

// Request is one stylesheet compilation.
type Request struct {
	Source       string
	URL          string
	IncludePaths []string
	Indented     bool
	Compressed   bool
	SourceMap    bool
}

// Result is a compiled stylesheet.
type Result struct {
	CSS       string
	SourceMap string
}

// Compiler turns SCSS or SASS into CSS.
type Compiler interface {
	Compile(ctx context.Context, req Request) (Result, error)
	Close() error
}

// CompilerFactory creates a compiler for one task run.
type CompilerFactory func(binary string) (Compiler, error)

// NewDartCompiler starts the embedded dart-sass protocol against the given
// binary.
func NewDartCompiler(binary string) (Compiler, error) {
	t, err := godartsass.Start(godartsass.Options{DartSassEmbeddedFilename: binary})
	if err != nil {
		return nil, fmt.Errorf("starting dart-sass (%s): %w", binary, err)
	}
	return &dartCompiler{transpiler: t}, nil
}

type dartCompiler struct {
	transpiler *godartsass.Transpiler
}

func (d *dartCompiler) Compile(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	args := godartsass.Args{
		Source:          req.Source,
		URL:             req.URL,
		IncludePaths:    req.IncludePaths,
		OutputStyle:     godartsass.OutputStyleExpanded,
		SourceSyntax:    godartsass.SourceSyntaxSCSS,
		EnableSourceMap: req.SourceMap,
	}
	if req.Compressed {
		args.OutputStyle = godartsass.OutputStyleCompressed
	}
	if req.Indented {
		args.SourceSyntax = godartsass.SourceSyntaxSASS
	}
	if req.SourceMap {
		args.SourceMapIncludeSources = true
	}
	res, err := d.transpiler.Execute(args)
	if err != nil {
		return Result{}, err
	}
	return Result{CSS: res.CSS, SourceMap: res.SourceMap}, nil
}

func (d *dartCompiler) Close() error {
	return d.transpiler.Close()
}
