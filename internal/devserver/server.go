package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/themeforge/internal/ctxlog"
	"github.com/vk/themeforge/internal/registry"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	// SocketPath is where the reload bridge is mounted.
	SocketPath = "/socket.io/"
	// HealthPath answers liveness probes.
	HealthPath = "/__themeforge/health"
	// ReloadEvent is the Socket.IO event carrying reload messages.
	ReloadEvent = "reload"
	// DefaultPort is used when no port is configured.
	DefaultPort = 3000
)

// Options configures a Server.
type Options struct {
	// Host is the listen host; empty listens on all interfaces.
	Host string
	// Port is the listen port. Zero picks a free port.
	Port int
}

// Server serves the site being developed and broadcasts reloads.
type Server struct {
	env     *registry.Env
	opts    Options
	io      *socket.Server
	httpSrv *http.Server
	addr    string
	clients atomic.Int64
	mu      sync.Mutex
	logger  *slog.Logger
}

// New creates a server for the environment. Nothing listens until Start.
func New(env *registry.Env, opts Options) *Server {
	return &Server{env: env, opts: opts, logger: slog.Default()}
}

// handler builds the HTTP routing: reload bridge, health probe and site.
func (s *Server) handler() (http.Handler, error) {
	site, err := s.siteHandler()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(SocketPath, s.io.ServeHandler(nil))
	mux.HandleFunc(HealthPath, s.healthHandler)
	mux.Handle("/", compress(injectHTML(site)))
	return mux, nil
}

func (s *Server) siteHandler() (http.Handler, error) {
	if s.env.Mode.Static {
		return http.FileServer(http.Dir(s.env.Abs(s.env.Paths.Dist))), nil
	}

	target, err := url.Parse("http://" + s.env.Project.DevHost)
	if err != nil {
		return nil, fmt.Errorf("invalid dev host %q: %w", s.env.Project.DevHost, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host
		r.Header.Del("Accept-Encoding")
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Warn("Dev host unreachable", "host", target.Host, "path", r.URL.Path, "error", err)
		http.Error(w, "dev host unreachable: "+err.Error(), http.StatusBadGateway)
	}
	return proxy, nil
}

// healthHandler answers liveness probes.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Start listens and serves in the background until Close.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpSrv != nil {
		return errors.New("dev server already started")
	}
	s.logger = ctxlog.FromContext(ctx).With("component", "devserver")

	s.io = socket.NewServer(nil, nil)
	s.io.On("connection", func(clients ...any) {
		n := s.clients.Add(1)
		s.logger.Debug("Browser connected.", "clients", n)
		if client, ok := clients[0].(*socket.Socket); ok {
			client.On("disconnect", func(...any) {
				s.logger.Debug("Browser disconnected.", "clients", s.clients.Add(-1))
			})
		}
	})

	handler, err := s.handler()
	if err != nil {
		return err
	}

	port := s.opts.Port
	ln, err := net.Listen("tcp", net.JoinHostPort(s.opts.Host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("dev server listen: %w", err)
	}
	s.addr = ln.Addr().String()
	s.httpSrv = &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Dev server failed unexpectedly", "error", err)
		}
	}()
	s.logger.Info("🌐 Dev server listening", "url", s.URL(), "mode", s.env.Mode.String())
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	return s.addr
}

// URL returns the browsable address once started.
func (s *Server) URL() string {
	host, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		return ""
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Reload implements registry.Reloader. Stylesheet swaps only work when
// names are stable, so themed (revisioned) builds always reload the page.
func (s *Server) Reload(ctx context.Context, kind, path string) {
	if s.io == nil {
		return
	}
	if kind == registry.ReloadCSS && !s.env.Mode.Static {
		kind = registry.ReloadFull
	}
	msg := map[string]any{"kind": kind, "path": strings.TrimPrefix(path, s.env.Paths.Dist+"/")}
	ctxlog.FromContext(ctx).Debug("Broadcasting reload.", "kind", kind, "path", path, "clients", s.clients.Load())
	s.io.Emit(ReloadEvent, msg)
}

// Close stops the HTTP server and disconnects every browser.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpSrv == nil {
		return nil
	}
	s.logger.Info("🌐 Shutting down dev server...")
	s.io.Close(nil)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := s.httpSrv.Shutdown(ctx)
	s.httpSrv = nil
	if err != nil {
		return fmt.Errorf("dev server shutdown: %w", err)
	}
	return nil
}
