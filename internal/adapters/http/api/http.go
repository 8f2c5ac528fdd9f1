// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/warfroggy/clashlens/internal/domain/dedupe"
	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a snapshot row for async persistence. Returns false
	// on backpressure.
	Enqueue(ctx context.Context, playerTag string, row model.RawSnapshot) bool

	// Read operations expose computed timelines.
	History(ctx context.Context, playerTag string, days int) (types.History, error)
	Activity(ctx context.Context, playerTag string) (types.Activity, error)
}

// RouterConfig carries the knobs the router middleware stack needs.
type RouterConfig struct {
	CORSAllowOrigins  []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	snapshotHandler *SnapshotHandler
	historyHandler  *HistoryHandler
	activityHandler *ActivityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		snapshotHandler: NewSnapshotHandler(deps),
		historyHandler:  NewHistoryHandler(deps),
		activityHandler: NewActivityHandler(deps),
	}
}

// Router builds the chi router with the full middleware stack and all
// business routes attached.
func (s *Server) Router(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5)) // gzip

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleMetrics, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/snapshots/{tag}", MetricsMiddleware(s.snapshotHandler.HandlePostSnapshots, "snapshots"))
		r.Get("/player/{tag}/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
		r.Get("/player/{tag}/activity", MetricsMiddleware(s.activityHandler.HandleGetActivity, "activity"))
	})

	return r
}

// envelope is the uniform response wrapper for all API endpoints.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Meta    any       `json:"meta,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data, meta any) {
	writeJSON(w, status, envelope{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, envelope{Success: false, Error: &apiError{Code: code, Message: msg}})
}
