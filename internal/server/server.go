// File: internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/internal/config"
)

// Server exposes the analysis pipeline over HTTP to the dashboard
// collaborator. It is a thin (de)serialization layer; all data shaping lives
// in the analyzer service.
type Server struct {
	cfg     config.ServerConfig
	httpSrv *http.Server
	logger  *zap.Logger
}

// New builds the server around the given handlers.
func New(cfg config.ServerConfig, h *Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http_server")

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/commits/fetch", h.FetchCommits)
		r.Get("/commits/{owner}/{repo}/{sha}", h.CommitDetail)
		r.Get("/repos/{owner}/{repo}", h.Repository)
	})

	return &Server{
		cfg: cfg,
		httpSrv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Run serves until the context is canceled, then shuts down gracefully
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.httpSrv.Shutdown(shutdownCtx)
}

// requestID tags every request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
