package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoPHP is returned when PHP sources exist but no interpreter is found.
var ErrNoPHP = errors.New("php binary not found")

// Renderer executes a template file and returns the produced HTML.
type Renderer interface {
	Render(ctx context.Context, file string) ([]byte, error)
}

// PHPRenderer runs templates through the php command line interpreter,
// with the template's directory as working directory so relative includes
// resolve.
type PHPRenderer struct {
	Binary string
}

// Render implements Renderer.
func (p PHPRenderer) Render(ctx context.Context, file string) ([]byte, error) {
	bin, err := exec.LookPath(p.binary())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPHP, p.binary())
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-f", filepath.Base(file))
	cmd.Dir = filepath.Dir(file)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("php %s: %w: %s", file, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (p PHPRenderer) binary() string {
	if p.Binary == "" {
		return "php"
	}
	return p.Binary
}
