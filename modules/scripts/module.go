package scripts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/pipeline"
	"github.com/vk/themeforge/internal/registry"
)

// VendorFile is the output name of the vendor bundle.
const VendorFile = "vendor.js"

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunScripts lints the theme scripts, concatenates the clean ones and
// transpiles the bundle into <name>.js.
func OnRunScripts(ctx context.Context, env *registry.Env) error {
	logger := ctxlog.FromContext(ctx)
	files, err := pipeline.Sources(env, env.Paths.Scripts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Debug("No scripts to build.")
		return nil
	}

	sources, err := pipeline.Map(ctx, files, func(ctx context.Context, f string) (string, error) {
		data, err := os.ReadFile(env.Abs(f))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", f, err)
		}
		if problem := lint(string(data), f); problem != nil {
			if err := pipeline.Lint(ctx, env.Mode, f, problem); err != nil {
				return "", err
			}
			return "", nil
		}
		return string(data), nil
	})
	if err != nil {
		return err
	}

	var kept []string
	for _, src := range sources {
		if src != "" {
			kept = append(kept, src)
		}
	}
	if len(kept) == 0 {
		logger.Warn("All scripts were skipped, nothing written.")
		return nil
	}

	name := env.Project.Name + ".js"
	out, err := transform(strings.Join(kept, "\n"), name, bundleOptions(env.Mode))
	if err != nil {
		return err
	}
	logger.Debug("Scripts bundled.", "files", len(kept), "skipped", len(files)-len(kept))

	return pipeline.Publish(ctx, env, env.Paths.Scripts.Dest,
		[]pipeline.File{{Name: name, Data: out}},
		pipeline.PublishOptions{Rev: true, Reload: registry.ReloadFull})
}

// OnRunVendorScripts concatenates third-party scripts into vendor.js.
// Vendor code is never linted or downleveled.
func OnRunVendorScripts(ctx context.Context, env *registry.Env) error {
	files, err := pipeline.VendorSources(env, env.Paths.Scripts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		ctxlog.FromContext(ctx).Debug("No vendor scripts to build.")
		return nil
	}

	bundle, err := pipeline.Concat(env, files)
	if err != nil {
		return err
	}
	opts := api.TransformOptions{Loader: api.LoaderJS}
	if env.Mode.Production {
		opts.MinifyWhitespace = true
		opts.MinifySyntax = true
		opts.MinifyIdentifiers = true
	}
	out, err := transform(string(bundle), VendorFile, opts)
	if err != nil {
		return err
	}

	return pipeline.Publish(ctx, env, env.Paths.Scripts.Dest,
		[]pipeline.File{{Name: VendorFile, Data: out}},
		pipeline.PublishOptions{Rev: true})
}

// bundleOptions mirrors the minifier settings per mode: production
// mangles, strips comments and drops console.log; development keeps the
// output readable and embeds a source map.
func bundleOptions(mode config.Mode) api.TransformOptions {
	opts := api.TransformOptions{
		Loader: api.LoaderJS,
		Target: api.ES2015,
	}
	if mode.Production {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
		opts.LegalComments = api.LegalCommentsNone
		opts.Pure = []string{"console.log"}
	} else {
		opts.Sourcemap = api.SourceMapInline
		opts.LegalComments = api.LegalCommentsInline
	}
	return opts
}

// lint parses one file and reports syntax errors.
func lint(code, file string) error {
	res := api.Transform(code, api.TransformOptions{Loader: api.LoaderJS, Sourcefile: file})
	return messagesError(res.Errors)
}

func transform(code, file string, opts api.TransformOptions) ([]byte, error) {
	opts.Sourcefile = file
	res := api.Transform(code, opts)
	if err := messagesError(res.Errors); err != nil {
		return nil, fmt.Errorf("transforming %s: %w", file, err)
	}
	return res.Code, nil
}

func messagesError(msgs []api.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	return errors.New(strings.TrimSpace(strings.Join(formatted, "")))
}

// Register registers the script tasks with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(registry.TaskScripts, &registry.RegisteredTask{
		Description: "Lint, bundle and transpile theme scripts",
		Fn:          OnRunScripts,
	})
	r.RegisterTask(registry.TaskVendorScripts, &registry.RegisteredTask{
		Description: "Concatenate vendor scripts",
		Fn:          OnRunVendorScripts,
	})
}
