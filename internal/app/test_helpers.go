package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/registry"
	"github.com/vk/themeforge/internal/testutil"
)

// SetupAppTest writes a project into a temp dir and creates an app for it.
// Logs are captured at debug level and dumped when THEMEFORGE_TEST_LOGS=true.
func SetupAppTest(t *testing.T, files map[string]string, appConfig Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	root := testutil.WriteProject(t, files)
	logBuffer := &testutil.SafeBuffer{}
	appConfig.ProjectPath = root
	appConfig.LogLevel = "debug"
	if appConfig.LogFormat == "" {
		appConfig.LogFormat = "text"
	}
	if appConfig.WorkerCount == 0 {
		appConfig.WorkerCount = 4
	}

	t.Cleanup(func() {
		if os.Getenv("THEMEFORGE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	testApp, err := NewApp(logBuffer, &appConfig, modules...)
	require.NoError(t, err, "app setup failed:\n%s", logBuffer.String())
	return testApp, logBuffer
}
