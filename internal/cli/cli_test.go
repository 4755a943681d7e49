package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
)

func TestParse_Operations(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		env      map[string]string
		wantOp   string
		wantMode config.Mode
	}{
		{name: "build defaults", args: []string{"build"}, wantOp: "build"},
		{name: "production long", args: []string{"--production", "build"}, wantOp: "build", wantMode: config.Mode{Production: true}},
		{name: "production alias", args: []string{"build", "--prod"}, wantOp: "build", wantMode: config.Mode{Production: true}},
		{name: "production short", args: []string{"-p", "dev"}, wantOp: "dev", wantMode: config.Mode{Production: true}},
		{name: "static", args: []string{"dev", "--static"}, wantOp: "dev", wantMode: config.Mode{Static: true}},
		{name: "node env", args: []string{"build"}, env: map[string]string{"NODE_ENV": "production"}, wantOp: "build", wantMode: config.Mode{Production: true}},
		{name: "prefixed env", args: []string{"wp"}, env: map[string]string{"THEMEFORGE_STATIC": "true", "THEMEFORGE_PRODUCTION": "1"}, wantOp: "wp", wantMode: config.Mode{Production: true, Static: true}},
		{name: "create theme", args: []string{"create-theme"}, wantOp: "create-theme"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			t.Setenv("NODE_ENV", "")
			t.Setenv("THEMEFORGE_STATIC", "")
			t.Setenv("THEMEFORGE_PRODUCTION", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// --- Act ---
			inv, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			// --- Assert ---
			require.NoError(t, err)
			require.False(t, shouldExit)
			assert.Equal(t, tc.wantOp, inv.Operation)
			assert.Equal(t, tc.wantMode, inv.Config.Mode)
		})
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	inv, _, err := Parse([]string{"-c", "site/package.json", "--workers", "3", "--port", "8081", "--log-format", "JSON", "--log-level", "debug", "dev"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "site/package.json", inv.Config.ProjectPath)
	assert.Equal(t, 3, inv.Config.WorkerCount)
	assert.Equal(t, 8081, inv.Config.Port)
	assert.Equal(t, "json", inv.Config.LogFormat)
	assert.Equal(t, "debug", inv.Config.LogLevel)
}

func TestParse_HelpAndVersion(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"version"}} {
		out := &bytes.Buffer{}
		inv, shouldExit, err := Parse(args, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, inv)
		assert.NotEmpty(t, out.String())
	}
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope", "build"}, "unknown flag: --nope"},
		{"unknown command", []string{"deploy"}, `unknown command "deploy"`},
		{"bad log format", []string{"--log-format", "xml", "build"}, "invalid log-format"},
		{"bad log level", []string{"--log-level", "loud", "build"}, "invalid log-level"},
		{"bad workers", []string{"--workers", "0", "build"}, "worker count must be at least 1"},
		{"extra args", []string{"build", "now"}, "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
