// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteProject creates a temp project root holding the given files, keyed
// by slash paths relative to the root.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// ReadFile returns a project file's content, failing the test if missing.
func ReadFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

// NewEnv writes the files into a temp project named "demo" and returns the
// task environment for it.
func NewEnv(t *testing.T, mode config.Mode, files map[string]string) *registry.Env {
	t.Helper()
	root := WriteProject(t, files)
	return registry.NewEnv(root, config.Project{Name: "demo"}.WithDefaults(), mode)
}

// ReloadCall is one notification seen by a RecordingReloader.
type ReloadCall struct {
	Kind string
	Path string
}

// RecordingReloader collects reload notifications. Safe for use from
// parallel task workers.
type RecordingReloader struct {
	mu    sync.Mutex
	calls []ReloadCall
}

// Reload implements registry.Reloader.
func (r *RecordingReloader) Reload(_ context.Context, kind, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ReloadCall{Kind: kind, Path: path})
}

// Calls returns a copy of the notifications received so far.
func (r *RecordingReloader) Calls() []ReloadCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReloadCall(nil), r.calls...)
}

// Kinds returns the reload kinds received so far, in order.
func (r *RecordingReloader) Kinds() []string {
	var kinds []string
	for _, c := range r.Calls() {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}
