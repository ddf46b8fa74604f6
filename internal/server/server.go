// Package server exposes the batch compiler over HTTP: a JWT-gated
// compile endpoint, a websocket stream of compile diagnostics, and
// ETag-cached reads of prior results.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pacedproton/mdslc/internal/batch"
	"github.com/pacedproton/mdslc/internal/batch/cache"
	"github.com/pacedproton/mdslc/internal/web/auth"
	"github.com/pacedproton/mdslc/internal/web/router"
	"github.com/pacedproton/mdslc/internal/web/websocket"
)

// Config configures a Server.
type Config struct {
	Addr          string
	JWTSecret     string
	TokenTTL      time.Duration
	RequireAuth   bool
	Logger        *zap.Logger
	BatchRunner   *batch.Runner
	ResponseCache cache.Cache
}

// DefaultConfig returns sane defaults. JWTSecret must still be set by
// the caller before tokens can be issued or verified.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		TokenTTL:    24 * time.Hour,
		RequireAuth: true,
	}
}

// Server is the HTTP front end over a batch.Runner.
type Server struct {
	cfg       Config
	logger    *zap.Logger
	mux       *router.Router
	auth      *auth.AuthService
	authorize *auth.Authorizer
	runner    *batch.Runner
	ws        *websocket.Server
	cache     cache.Cache
}

// New builds a Server from cfg. A nil BatchRunner gets a default one; a
// nil ResponseCache gets an in-process memory cache.
func New(ctx context.Context, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BatchRunner == nil {
		cfg.BatchRunner = batch.NewRunner(cfg.Logger)
	}
	if cfg.ResponseCache == nil {
		cfg.ResponseCache = cache.NewMemoryCache()
	}

	s := &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		mux:       router.NewRouter(),
		auth:      auth.NewAuthService(cfg.JWTSecret, cfg.TokenTTL),
		authorize: auth.NewAuthorizer(roleChecker{}),
		runner:    cfg.BatchRunner,
		ws:        websocket.NewServer(ctx, websocket.DefaultConfig()),
		cache:     cfg.ResponseCache,
	}
	s.routes()
	return s
}

// routes wires every HTTP and websocket endpoint onto the router.
func (s *Server) routes() {
	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Get("/api/v1/compile/{hash}", s.handleGetResult)
	s.mux.Post("/api/v1/compile", s.withAuth(s.withPermission("compile", auth.PermissionCreate, s.handleCompile)))
	s.mux.Get("/ws/diagnostics", s.ws.Handler())
}

// Start runs the websocket hub loop and serves HTTP until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.ws.Start()
	defer s.ws.Shutdown()

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the router directly, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}
