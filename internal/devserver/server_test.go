package devserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/themeforge/internal/config"
	"github.com/vk/themeforge/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	sioclient "github.com/zishang520/socket.io-client-go/socket"
)

func startServer(t *testing.T, project *config.Project, mode config.Mode, files map[string]string) *Server {
	t.Helper()
	root := t.TempDir()
	env := registry.NewEnv(root, project, mode)
	for name, content := range files {
		abs := env.Abs(env.Paths.Dist + "/" + name)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	srv := New(env, Options{Host: "127.0.0.1"})
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Close(context.Background()) })
	return srv
}

func get(t *testing.T, url string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestServer_StaticInjectsSnippet(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	project := config.Project{Name: "demo"}.WithDefaults()
	srv := startServer(t, project, config.Mode{Static: true}, map[string]string{
		"index.html":      "<html><body><h1>Hi</h1></body></html>",
		"styles/demo.css": "body{color:red}",
	})

	// --- Act ---
	res := get(t, srv.URL()+"/", nil)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	// --- Assert ---
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "<h1>Hi</h1><script src=")
	assert.True(t, strings.HasSuffix(string(body), "</body></html>"))

	css := get(t, srv.URL()+"/styles/demo.css", nil)
	cssBody, err := io.ReadAll(css.Body)
	require.NoError(t, err)
	assert.Equal(t, "body{color:red}", string(cssBody))
}

func TestServer_BrotliEncoding(t *testing.T) {
	t.Parallel()

	page := "<html><body>" + strings.Repeat("<p>lorem ipsum</p>", 100) + "</body></html>"
	srv := startServer(t, config.Project{Name: "demo"}.WithDefaults(), config.Mode{Static: true}, map[string]string{
		"index.html": page,
	})

	res := get(t, srv.URL()+"/", map[string]string{"Accept-Encoding": "br"})

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "br", res.Header.Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(res.Body))
	require.NoError(t, err)
	assert.Contains(t, string(plain), "lorem ipsum")
	assert.Contains(t, string(plain), ClientScriptURL)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv := startServer(t, config.Project{Name: "demo"}.WithDefaults(), config.Mode{Static: true}, nil)

	res := get(t, srv.URL()+HealthPath, nil)
	body, err := io.ReadAll(res.Body)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "OK\n", string(body))
}

func TestServer_ProxiesDevHost(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<html><body>wordpress "+r.URL.Path+"</body></html>")
	}))
	t.Cleanup(upstream.Close)
	project := config.Project{Name: "demo", DevHost: strings.TrimPrefix(upstream.URL, "http://")}.WithDefaults()
	srv := startServer(t, project, config.Mode{}, nil)

	// --- Act ---
	res := get(t, srv.URL()+"/sample-page/", map[string]string{"Accept-Encoding": "gzip"})

	// --- Assert ---
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(res.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "wordpress /sample-page/")
	assert.Contains(t, string(plain), ClientScriptURL)
}

func connectBrowser(t *testing.T, srv *Server) <-chan any {
	t.Helper()
	opts := sioclient.DefaultOptions()
	opts.SetPath(SocketPath)
	opts.SetTransports(types.NewSet(transports.WebSocket))
	manager := sioclient.NewManager(srv.URL(), opts)
	client := manager.Socket("/", opts)
	t.Cleanup(func() { client.Disconnect() })

	connected := make(chan struct{}, 1)
	received := make(chan any, 1)
	client.On(types.EventName("connect"), func(...any) { connected <- struct{}{} })
	client.On(types.EventName(ReloadEvent), func(data ...any) {
		if len(data) > 0 {
			received <- data[0]
		}
	})
	client.Connect()

	select {
	case <-connected:
	case <-time.After(5 * time.Second):
		t.Fatal("browser client never connected")
	}
	return received
}

func awaitReload(t *testing.T, received <-chan any) map[string]any {
	t.Helper()
	select {
	case msg := <-received:
		m, ok := msg.(map[string]any)
		require.True(t, ok, "unexpected payload %#v", msg)
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("reload event not received")
	}
	return nil
}

func TestServer_ReloadReachesBrowser(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := startServer(t, config.Project{Name: "demo"}.WithDefaults(), config.Mode{Static: true}, nil)
	received := connectBrowser(t, srv)

	// --- Act ---
	srv.Reload(context.Background(), registry.ReloadCSS, "static/styles/demo.css")

	// --- Assert ---
	m := awaitReload(t, received)
	assert.Equal(t, "css", m["kind"])
	assert.Equal(t, "styles/demo.css", m["path"])
}

func TestServer_ThemedCSSReloadsPage(t *testing.T) {
	t.Parallel()

	srv := startServer(t, config.Project{Name: "demo", DevHost: "127.0.0.1:1"}.WithDefaults(), config.Mode{}, nil)
	received := connectBrowser(t, srv)

	srv.Reload(context.Background(), registry.ReloadCSS, "wordpress/wp-content/themes/demo/styles/demo-0123456789.css")

	m := awaitReload(t, received)
	assert.Equal(t, "full", m["kind"])
}

func TestServer_ReloadBeforeStartIsDropped(t *testing.T) {
	t.Parallel()

	srv := New(registry.NewEnv(t.TempDir(), config.Project{Name: "demo"}.WithDefaults(), config.Mode{}), Options{})

	assert.NotPanics(t, func() { srv.Reload(context.Background(), registry.ReloadFull, "") })
	assert.NoError(t, srv.Close(context.Background()))
}
