package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/themeforge/internal/composer"
	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/dag"
	"github.com/vk/themeforge/internal/report"
)

// Run executes one named operation and prints the run summary.
func (a *App) Run(ctx context.Context, operation string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "operation", operation)

	op, err := composer.Lookup(operation)
	if err != nil {
		return err
	}

	if operation == composer.OpDev {
		a.env.Reloader = a.server
		defer func() {
			if err := a.server.Close(context.WithoutCancel(ctx)); err != nil {
				a.logger.Error("Dev server shutdown failed", "error", err)
			}
		}()
	}

	a.logger.Info("🚀 Starting operation", "operation", operation, "project", a.env.Project.Name, "mode", a.env.Mode.String())
	start := time.Now()
	results, runErr := a.composer.Run(ctx, op)
	elapsed := time.Since(start)

	if a.config.LogFormat != "json" && len(results) > 0 {
		if err := report.Summary(a.outW, operation, results, elapsed); err != nil {
			a.logger.Debug("Writing summary failed.", "error", err)
		}
	}

	// dev ends on Ctrl-C; any other operation stopped early left a partial build.
	if ctx.Err() != nil && operation != composer.OpDev {
		a.logger.Warn("🛑 Operation interrupted", "operation", operation)
		return fmt.Errorf("operation %s interrupted: %w", operation, ctx.Err())
	}
	if runErr != nil {
		return fmt.Errorf("operation %s failed: %w", operation, runErr)
	}
	if n := report.Counts(results)[dag.Skipped]; n > 0 && ctx.Err() == nil {
		a.logger.Warn("⏭️ Operation finished with skipped tasks", "operation", operation, "skipped", n)
	}
	a.logger.Info("🏁 Operation finished.", "operation", operation, "elapsed", elapsed.Round(time.Millisecond))
	return nil
}
