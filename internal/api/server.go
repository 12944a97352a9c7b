// Package api provides a read-only REST API over flight lookups and delay
// aggregations.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightdelays/internal/airports"
	"flightdelays/internal/flights"
)

// Source is the subset of the query gateway the API serves from.
type Source interface {
	FlightByID(ctx context.Context, id int64) ([]flights.Record, error)
	FlightsByDate(ctx context.Context, day, month, year int) ([]flights.Record, error)
	DelayedFlightsByAirline(ctx context.Context, name string) ([]flights.Record, error)
	DelayedFlightsByAirport(ctx context.Context, code string) ([]flights.Record, error)
	AllFlights(ctx context.Context) ([]flights.Record, error)
}

// Server provides REST API access to flights and delay statistics.
type Server struct {
	src         Source
	airports    *airports.Index
	port        int
	authEnabled bool
	apiKeys     map[string]bool // Simple API key auth (when enabled).
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	now         func() time.Time
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	AuthEnabled bool
	APIKeys     []string // List of valid API keys.
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new API server. idx is the airport snapshot used for the
// route map.
func NewServer(src Source, idx *airports.Index, cfg Config, opts ...Option) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	s := &Server{
		src:         src,
		airports:    idx,
		port:        cfg.Port,
		authEnabled: cfg.AuthEnabled,
		apiKeys:     keys,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("API starting", "addr", "http://localhost"+srv.Addr, "auth", s.authEnabled)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Handler returns the full router with middleware and the metrics endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	r.Mount("/api/v1", s.Router())
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Router returns the API routes for embedding in other servers.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Health check (no auth required).
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.authEnabled {
			r.Use(s.authMiddleware)
		}

		r.Get("/flights", s.handleFlightsByDate)
		r.Get("/flights/{id}", s.handleFlightByID)
		r.Get("/delayed/airline/{name}", s.handleDelayedByAirline)
		r.Get("/delayed/airport/{code}", s.handleDelayedByAirport)

		r.Get("/delays/summary", s.handleSummary)
		r.Get("/delays/airlines", s.handleAirlines)
		r.Get("/delays/hours", s.handleHours)
		r.Get("/delays/routes", s.handleRoutes)
		r.Get("/map", s.handleMap)
	})

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check X-API-Key header first.
		apiKey := r.Header.Get("X-API-Key")

		// Fall back to Authorization: Bearer <key>.
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		// Fall back to query parameter (for simple testing).
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
