// Package api serves the HTTP control surface: login, interface state and
// mode mutations, inventory, metrics, and the websocket event stream.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/ifctl/internal/audit"
	"grimm.is/ifctl/internal/auth"
	"grimm.is/ifctl/internal/clock"
	"grimm.is/ifctl/internal/config"
	"grimm.is/ifctl/internal/logging"
	"grimm.is/ifctl/internal/metrics"
	"grimm.is/ifctl/internal/netctl"
	"grimm.is/ifctl/internal/ratelimit"
)

// Login attempts allowed per client IP per minute.
const loginRateLimit = 5

// ServerConfig holds HTTP server security configuration.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration // Slowloris prevention
	ReadTimeout       time.Duration // Body read limit
	WriteTimeout      time.Duration // Response timeout
	IdleTimeout       time.Duration // Keep-alive timeout
	MaxHeaderBytes    int           // Header size limit
	MaxBodyBytes      int64         // Request body size limit
}

// DefaultServerConfig returns secure default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
		MaxBodyBytes:      1 << 20, // 1MB; the API only ever takes small JSON bodies
	}
}

// Server handles API requests.
type Server struct {
	cfg        *config.Config
	credential *auth.Credential
	tokens     *auth.TokenStore
	controller *netctl.Controller
	auditLog   *audit.Store // optional
	logger     *logging.Logger
	registry   *metrics.Registry
	limiter    *ratelimit.Limiter
	wsManager  *WSManager
	startTime  time.Time
	srvConfig  *ServerConfig

	stop      chan struct{}
	closeOnce sync.Once

	mux *http.ServeMux
}

// ServerOptions holds dependencies for the API server.
type ServerOptions struct {
	Config     *config.Config
	Credential *auth.Credential
	Tokens     *auth.TokenStore
	Controller *netctl.Controller
	AuditLog   *audit.Store // optional
	Logger     *logging.Logger
	HTTP       *ServerConfig // optional, defaults applied when nil
}

// NewServer creates a new API server with the provided options.
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	srvConfig := opts.HTTP
	if srvConfig == nil {
		srvConfig = DefaultServerConfig()
	}

	stop := make(chan struct{})
	limiter := ratelimit.NewLimiter()
	limiter.StartCleanup(10*time.Minute, 1*time.Hour, stop)

	s := &Server{
		cfg:        opts.Config,
		credential: opts.Credential,
		tokens:     opts.Tokens,
		controller: opts.Controller,
		auditLog:   opts.AuditLog,
		logger:     logger.WithComponent("api"),
		registry:   metrics.Get(),
		limiter:    limiter,
		startTime:  clock.Now(),
		srvConfig:  srvConfig,
		stop:       stop,
	}

	s.wsManager = NewWSManager(s.uptime, stop)
	if s.controller != nil {
		s.controller.OnChange = s.wsManager.PublishInterfaceEvent
	}

	s.initRoutes()
	return s
}

// initRoutes initializes the HTTP router.
func (s *Server) initRoutes() {
	mux := http.NewServeMux()
	s.mux = mux

	// Public endpoints (no auth required)
	mux.HandleFunc("POST /api/login", s.instrument("/api/login", s.handleLogin))
	mux.HandleFunc("GET /api/status", s.instrument("/api/status", s.handleStatus))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Websockets (auth checked inside the handler before upgrade)
	mux.HandleFunc("GET /api/ws/events", s.handleEventsWS)

	// Protected endpoints
	mux.HandleFunc("POST /api/logout", s.instrument("/api/logout", s.authenticated(s.handleLogout)))
	mux.HandleFunc("GET /api/auth/status", s.instrument("/api/auth/status", s.authenticated(s.handleAuthStatus)))
	mux.HandleFunc("POST /api/net/interfaces", s.instrument("/api/net/interfaces", s.authenticated(s.handleInterfaces)))
	mux.HandleFunc("POST /api/net/ifstate", s.instrument("/api/net/ifstate", s.authenticated(s.handleIfState)))
	mux.HandleFunc("POST /api/net/ifmode", s.instrument("/api/net/ifmode", s.authenticated(s.handleIfMode)))
}

// Handler returns the router wrapped with the body size limit.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.srvConfig.MaxBodyBytes)
		s.mux.ServeHTTP(w, r)
	})
}

// Close stops the server's background goroutines and disconnects websocket
// clients. Safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.srvConfig.ReadHeaderTimeout,
		ReadTimeout:       s.srvConfig.ReadTimeout,
		WriteTimeout:      s.srvConfig.WriteTimeout,
		IdleTimeout:       s.srvConfig.IdleTimeout,
		MaxHeaderBytes:    s.srvConfig.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// authenticated enforces a valid bearer token. The response body is uniform
// for every rejection reason; the distinction lives in logs and metrics.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		verdict := s.tokens.Verify(token)
		if verdict != auth.VerdictValid {
			s.logger.Warn("rejected request",
				"path", r.URL.Path, "verdict", verdict.String(), "ip", getClientIP(r))
			s.registry.RecordAuthFailure(verdict.String())
			WriteError(w, http.StatusUnauthorized, "authentication failed")
			return
		}
		next(w, r)
	}
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// instrument records request counts and latency per route.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := clock.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.registry.RecordAPIRequest(r.Method, path, rec.status, clock.Since(start).Seconds())
	}
}

func (s *Server) uptime() time.Duration {
	return clock.Since(s.startTime)
}

// audit writes an event when an audit store is configured.
func (s *Server) audit(evt audit.Event) {
	if s.auditLog == nil {
		return
	}
	if err := s.auditLog.Write(evt); err != nil {
		s.logger.Warn("audit write failed", "error", err)
	}
}
