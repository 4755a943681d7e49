package styles

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// VendorFile is the output name of the vendor stylesheet.
const VendorFile = "vendor.css"

// browserTargets drive esbuild's vendor prefixing and syntax lowering.
var browserTargets = []api.Engine{
	{Name: api.EngineChrome, Version: "61"},
	{Name: api.EngineFirefox, Version: "60"},
	{Name: api.EngineSafari, Version: "11"},
	{Name: api.EngineEdge, Version: "18"},
}

// Module implements the registry.Module interface for this package.
type Module struct {
	// NewCompiler overrides the dart-sass compiler. Nil uses NewDartCompiler.
	NewCompiler CompilerFactory
}

func (m *Module) onRunStyles(ctx context.Context, env *registry.Env) error {
	logger := ctxlog.FromContext(ctx)
	files, err := pipeline.Sources(env, env.Paths.Styles)
	if err != nil {
		return err
	}
	var entries []string
	for _, f := range files {
		if !strings.HasPrefix(path.Base(f), "_") {
			entries = append(entries, f)
		}
	}
	if len(entries) == 0 {
		logger.Debug("No stylesheets to build.")
		return nil
	}

	factory := m.NewCompiler
	if factory == nil {
		factory = NewDartCompiler
	}
	compiler, err := factory(env.Project.SassBinary)
	if err != nil {
		return err
	}
	defer func() {
		if err := compiler.Close(); err != nil {
			logger.Debug("Closing sass compiler failed.", "error", err)
		}
	}()

	includeDir := env.Abs(pipeline.Base(env.Paths.Styles.Src[0]))
	var chunks []string
	for _, f := range entries {
		css, err := compileEntry(ctx, env, compiler, f, includeDir)
		if err != nil {
			if lintErr := pipeline.Lint(ctx, env.Mode, f, err); lintErr != nil {
				return lintErr
			}
			continue
		}
		chunks = append(chunks, css)
	}
	if len(chunks) == 0 {
		logger.Warn("All stylesheets were skipped, nothing written.")
		return nil
	}

	out := []byte(strings.Join(chunks, "\n"))
	if env.Mode.Production {
		if out, err = minify(out, env.Project.Name+".css"); err != nil {
			return err
		}
	}
	return pipeline.Publish(ctx, env, env.Paths.Styles.Dest,
		[]pipeline.File{{Name: env.Project.Name + ".css", Data: out}},
		pipeline.PublishOptions{Rev: true, Reload: registry.ReloadCSS})
}

func compileEntry(ctx context.Context, env *registry.Env, c Compiler, file, includeDir string) (string, error) {
	abs := env.Abs(file)
	src, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	res, err := c.Compile(ctx, Request{
		Source:       string(src),
		URL:          (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		IncludePaths: []string{filepath.Dir(abs), includeDir},
		Indented:     path.Ext(file) == ".sass",
		Compressed:   env.Mode.Production,
		SourceMap:    !env.Mode.Production,
	})
	if err != nil {
		return "", err
	}
	css := string(PxToRem([]byte(res.CSS)))
	if res.SourceMap != "" {
		css = strings.TrimRight(css, "\n") + "\n/*# sourceMappingURL=data:application/json;charset=utf-8;base64," +
			base64.StdEncoding.EncodeToString([]byte(res.SourceMap)) + " */\n"
	}
	return css, nil
}

// onRunVendorStyles concatenates third-party CSS into vendor.css.
func onRunVendorStyles(ctx context.Context, env *registry.Env) error {
	files, err := pipeline.VendorSources(env, env.Paths.Styles)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		ctxlog.FromContext(ctx).Debug("No vendor stylesheets to build.")
		return nil
	}
	out, err := pipeline.Concat(env, files)
	if err != nil {
		return err
	}
	if env.Mode.Production {
		if out, err = minify(out, VendorFile); err != nil {
			return err
		}
	}
	return pipeline.Publish(ctx, env, env.Paths.Styles.Dest,
		[]pipeline.File{{Name: VendorFile, Data: out}},
		pipeline.PublishOptions{Rev: true, Reload: registry.ReloadCSS})
}

func minify(css []byte, name string) ([]byte, error) {
	res := api.Transform(string(css), api.TransformOptions{
		Loader:           api.LoaderCSS,
		Sourcefile:       name,
		Engines:          browserTargets,
		MinifyWhitespace: true,
		MinifySyntax:     true,
		LegalComments:    api.LegalCommentsNone,
	})
	if len(res.Errors) > 0 {
		msgs := api.FormatMessages(res.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return nil, fmt.Errorf("minifying %s: %s", name, strings.TrimSpace(strings.Join(msgs, "")))
	}
	return res.Code, nil
}

// Register registers the stylesheet tasks with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskStyles, &registry.RegisteredTask{
		Description: "Compile, convert and minify theme stylesheets",
		Fn:          m.onRunStyles,
	})
	r.RegisterTask(registry.TaskVendorStyles, &registry.RegisteredTask{
		Description: "Concatenate vendor stylesheets",
		Fn:          onRunVendorStyles,
	})
}
