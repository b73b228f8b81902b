package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Builder normalizes a payload for a location.
type Builder interface {
	Build(ctx context.Context, location string, payload []byte) (domain.ForecastDocument, error)
}

// Deps wires the server to the rest of the service.
type Deps struct {
	Ready   sharedobs.ReadinessChecker
	Store   domain.ForecastStore
	Builder Builder
	// Options are used for ad-hoc normalization requests that carry no location.
	Options domain.BuildOptions
	Metrics *observability.Metrics
	// Clock stamps processed_at on ad-hoc documents; nil uses the real clock.
	Clock clockwork.Clock

	// RateLimit is requests per second on /v1; zero or less disables throttling.
	RateLimit float64
	RateBurst int
}

// Server exposes health, readiness, metrics and the forecast API.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and /v1 routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	r := mux.NewRouter()
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(deps.Ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(s.instrument, newThrottle(deps.RateLimit, deps.RateBurst, deps.Metrics))
	api.HandleFunc("/normalize", s.handleNormalize).Methods(http.MethodPost)
	api.HandleFunc("/forecasts/{location}", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/{location}/days/{index:[0-9]+}", s.handleDay).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/{location}/days/{index:[0-9]+}/chart", s.handleDayChart).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/{location}/long", s.handleLong).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/{location}/long/chart", s.handleLongChart).Methods(http.MethodGet)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
