// Package api provides the HTTP API server for sentitrack.
//
// It exposes on-demand sentiment-vs-price comparisons as JSON, as an SVG
// chart and as a WebSocket progress stream, plus single-headline scoring.
// Nothing the API computes is written to disk.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/sentitrack/internal/analysis/sentiment"
	"github.com/seenimoa/sentitrack/internal/config"
	"github.com/seenimoa/sentitrack/internal/datasource"
	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/internal/pipeline"
	"github.com/seenimoa/sentitrack/internal/report"
	"github.com/seenimoa/sentitrack/pkg/models"
)

// Runner executes one comparison.
type Runner interface {
	Run(ctx context.Context, t pipeline.Target) (*pipeline.Result, error)
}

// RunnerFactory builds a Runner whose progress lines go to out.
type RunnerFactory func(out io.Writer) (Runner, error)

// HeadlineScorer scores a single text.
type HeadlineScorer interface {
	ScoreText(ctx context.Context, text string) (float64, models.Classification, error)
}

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	newRunner RunnerFactory
	runner    Runner // progress discarded; shared by JSON and SVG requests
	scorer    HeadlineScorer
	log       *slog.Logger
	version   string
}

// NewServer creates a server whose comparisons are built from cfg.
func NewServer(cfg *config.Config, log *slog.Logger, version string) (*Server, error) {
	classifier, err := sentiment.NewClassifier(cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("classifier setup failed: %w", err)
	}
	factory := func(out io.Writer) (Runner, error) {
		return pipeline.NewFromConfig(cfg,
			pipeline.WithWriter(nil, false),
			pipeline.WithOutput(out),
			pipeline.WithLogger(log),
		)
	}
	return NewServerWith(cfg, factory, sentiment.NewScorer(classifier, log), log, version)
}

// NewServerWith creates a server from explicit collaborators.
func NewServerWith(cfg *config.Config, factory RunnerFactory, scorer HeadlineScorer, log *slog.Logger, version string) (*Server, error) {
	if log == nil {
		log = infra.Discard()
	}
	runner, err := factory(io.Discard)
	if err != nil {
		return nil, fmt.Errorf("pipeline setup failed: %w", err)
	}
	s := &Server{
		cfg:       cfg,
		newRunner: factory,
		runner:    runner,
		scorer:    scorer,
		log:       log,
		version:   version,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully on
// SIGINT or SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // a comparison pauses between day queries
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-done:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/config/keys", s.handleGetConfigKeys)

		r.Get("/compare", s.handleCompare)
		r.Get("/compare/chart.svg", s.handleCompareChart)
		r.Get("/compare/ws", s.handleCompareWS)

		r.Post("/score", s.handleScore)
	})

	return r
}

// requestLogger logs one slog record per request.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// ════════════════════════════════════════════════════════════════════
// Request / Response Types
// ════════════════════════════════════════════════════════════════════

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ScoreRequest is the body for POST /api/score.
type ScoreRequest struct {
	Text string `json:"text"`
}

// ScoreResponse is the data of a POST /api/score reply.
type ScoreResponse struct {
	Text       string       `json:"text"`
	Label      models.Label `json:"label"`
	Confidence float64      `json:"confidence"`
	Score      float64      `json:"score"` // -1.0 to +1.0
}

// ════════════════════════════════════════════════════════════════════
// Handlers
// ════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":     "ok",
			"version":    s.version,
			"news":       s.cfg.News.Provider,
			"classifier": s.cfg.Classifier.Provider,
			"time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleCompare runs a comparison and returns every table of the result.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	target, err := s.targetFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.runner.Run(r.Context(), target)
	if err != nil {
		writeError(w, runErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: res})
}

// handleCompareChart runs a comparison and renders it as SVG.
func (s *Server) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	target, err := s.targetFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.runner.Run(r.Context(), target)
	if err != nil {
		writeError(w, runErrorStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report.ComparisonChart(target.Entity, res.Comparison, report.DefaultChartConfig()))
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	score, c, err := s.scorer.ScoreText(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ScoreResponse{
			Text:       req.Text,
			Label:      c.Label,
			Confidence: c.Confidence,
			Score:      score,
		},
	})
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

// targetFromQuery reads entity, ticker and days, defaulting to the
// configured tracker.
func (s *Server) targetFromQuery(r *http.Request) (pipeline.Target, error) {
	q := r.URL.Query()
	t := pipeline.Target{
		Entity: s.cfg.Tracker.Entity,
		Ticker: s.cfg.Tracker.Ticker,
		Days:   s.cfg.Tracker.Days,
	}
	if v := strings.TrimSpace(q.Get("entity")); v != "" {
		t.Entity = v
	}
	if v := strings.TrimSpace(q.Get("ticker")); v != "" {
		t.Ticker = strings.ToUpper(v)
	}
	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return t, fmt.Errorf("invalid days %q", v)
		}
		t.Days = days
	}
	return t, t.Validate()
}

// runErrorStatus maps a pipeline error to an HTTP status.
func runErrorStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoEntity), errors.Is(err, pipeline.ErrNoTicker), errors.Is(err, pipeline.ErrNoDays):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrTickerNotFound):
		return http.StatusNotFound
	case datasource.IsRateLimited(err):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
