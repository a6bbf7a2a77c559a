// Package api exposes the HTTP trigger interface for the crawler service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/fuel"
)

// Runner starts one crawl run and blocks until it finishes.
type Runner interface {
	Run(ctx context.Context) (fuel.CrawlRun, error)
}

// Server wires HTTP handlers to the orchestrator. The trigger endpoint
// acknowledges immediately; run outcome is observable only through logs and
// the freshness timestamp.
type Server struct {
	router  chi.Router
	runner  Runner
	logger  *zap.Logger
	running atomic.Bool
}

// NewServer constructs a Server with middleware and routes.
func NewServer(runner Runner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runner: runner,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.home)
	r.Get("/crawl", s.triggerCrawl)
	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) home(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Petrol Mate crawler home page..."})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// triggerCrawl starts one run in the background and returns at once. A
// second trigger while a run is active is rejected rather than queued.
func (s *Server) triggerCrawl(w http.ResponseWriter, _ *http.Request) {
	if !s.running.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "a crawl run is already in progress"})
		return
	}

	go func() {
		defer s.running.Store(false)
		// Detached from the request context: the trigger returns before
		// the run does.
		run, err := s.runner.Run(context.Background())
		if err != nil {
			s.logger.Error("Crawl run failed", zap.Error(err))
			return
		}
		s.logger.Info("Crawl run completed",
			zap.String("run_id", run.ID),
			zap.Duration("duration", run.Duration()))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "Crawling for data..."})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Response is already committed; an encode failure has nowhere to go.
	_ = json.NewEncoder(w).Encode(payload)
}
