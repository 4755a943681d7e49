package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/ctxlog"
)

// ErrLint marks source problems reported by a linter or compiler.
var ErrLint = errors.New("lint failed")

// Lint applies the lint policy to a problem found in a source file.
// Production builds fail; development logs a warning and carries on, so the
// watch loop survives a bad save.
func Lint(ctx context.Context, mode config.Mode, file string, problem error) error {
	if problem == nil {
		return nil
	}
	if mode.Production {
		return fmt.Errorf("%w: %s: %w", ErrLint, file, problem)
	}
	ctxlog.FromContext(ctx).Warn("⚠️ Lint problem, file skipped", "file", file, "error", problem)
	return nil
}
