// Package server exposes the watchlist and catalog search over a local JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Watchlist    WatchlistService
	Catalog      CatalogService
	Logger       *slog.Logger
}

// Server serves the HTTP API.
type Server struct {
	router *mux.Router
	srv    *http.Server
	logger *slog.Logger
}

// New builds the router and HTTP server. Nothing listens until Run.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := NewHandler(opts.Watchlist, opts.Catalog, logger)
	r := NewRouter(h, logger)

	return &Server{
		router: r,
		logger: logger,
		srv: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http api stopped")
	return nil
}

// NewRouter constructs the mux router with all routes.
func NewRouter(h *Handler, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(logger))

	// Every route also matches OPTIONS so corsMiddleware can answer the
	// preflight; mux only runs middleware on matched routes.
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/watchlist", h.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/watchlist", h.Add).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/status", h.Status).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/watchlist/{id:[0-9]+}", h.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/watchlist/{id:[0-9]+}", h.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist/{id:[0-9]+}/toggle", h.Toggle).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/search", h.Search).Methods(http.MethodGet, http.MethodOptions)

	return r
}

// corsMiddleware allows cross-origin requests from loopback origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && isLoopbackOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}
