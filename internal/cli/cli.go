package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/themeforge/internal/app"
	"github.com/vk/themeforge/internal/composer"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/devserver"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Invocation is a parsed command line.
type Invocation struct {
	Config    *app.Config
	Operation string
}

var operationHelp = []struct{ name, short string }{
	{composer.OpWP, "Download and install WordPress"},
	{composer.OpCreateTheme, "Scaffold the theme from the starter archive"},
	{composer.OpDev, "Build assets, serve them and rebuild on change"},
	{composer.OpBuild, "Build the theme header and every asset"},
}

// Parse processes command-line arguments. It returns the invocation, a
// boolean indicating if the program should exit cleanly (help, version),
// or an ExitError for usage problems.
func Parse(args []string, output io.Writer) (*Invocation, bool, error) {
	v := viper.New()
	v.SetEnvPrefix("THEMEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var inv *Invocation

	root := &cobra.Command{
		Use:           "themeforge",
		Short:         "Build, serve and scaffold WordPress themes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(output)
	root.SetErr(output)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringP("project", "c", ".", "Project file or the directory containing it.")
	pf.BoolP("production", "p", false, "Production build (also NODE_ENV=production).")
	pf.Bool("prod", false, "Alias of --production.")
	pf.Bool("static", false, "Build a static site into the static directory instead of the theme.")
	pf.String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.String("log-format", "text", "Log output format: 'text' or 'json'.")
	pf.Int("workers", runtime.NumCPU(), "Number of tasks run concurrently.")
	pf.Int("port", devserver.DefaultPort, "Dev server port.")
	if err := v.BindPFlags(pf); err != nil {
		return nil, false, fmt.Errorf("binding flags: %w", err)
	}

	for _, op := range operationHelp {
		name := op.name
		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: op.short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				cfg, err := buildConfig(v)
				if err != nil {
					return err
				}
				inv = &Invocation{Config: cfg, Operation: name}
				return nil
			},
		})
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "themeforge %s\n", Version)
		},
	})

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if inv == nil {
		return nil, true, nil
	}
	return inv, false, nil
}

func buildConfig(v *viper.Viper) (*app.Config, error) {
	logFormat := strings.ToLower(v.GetString("log-format"))
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(v.GetString("log-level"))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	mode := config.Mode{
		Production: v.GetBool("production") || v.GetBool("prod") || os.Getenv("NODE_ENV") == "production",
		Static:     v.GetBool("static"),
	}

	cfg, err := app.NewConfig(app.Config{
		ProjectPath: v.GetString("project"),
		Mode:        mode,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		WorkerCount: v.GetInt("workers"),
		Port:        v.GetInt("port"),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
