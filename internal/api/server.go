// Package api serves necklace operations over HTTP.
//
// # Endpoints
//
//	GET  /healthz            liveness probe
//	GET  /version            build information
//	GET  /metrics            Prometheus metrics
//	POST /v1/check           feasibility of a group set
//	POST /v1/sample          one classified sequence
//	POST /v1/run             a trial report
//	GET  /v1/reports         recent archived reports for ?fingerprint=
//	GET  /v1/reports/{id}    an archived report (when an archive is configured)
//
// Request bodies carry the group set in the JSON format of package io,
// alongside the operation's options:
//
//	{"groups": [{"name": "A", "items": ["A1", "A2"]}], "trials": 10000, "seed": 7}
//
// Errors are returned as {"code": ..., "error": ...} with the status derived
// from the error code: malformed input is 400, an infeasible group set is 422.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/necklace/pkg/observability"
	"github.com/matzehuels/necklace/pkg/trial"
)

// Defaults for [Options].
const (
	DefaultMaxTrials    = 1_000_000
	DefaultMaxBody      = 1 << 20
	DefaultTimeout      = 2 * time.Minute
	DefaultMaxWorkers   = 16
	shutdownGracePeriod = 10 * time.Second
)

// DefaultRecentLimit is how many reports GET /v1/reports returns by default.
const DefaultRecentLimit = 20

// ReportFinder loads archived reports.
type ReportFinder interface {
	Get(ctx context.Context, runID string) (*trial.Report, error)
	Recent(ctx context.Context, fingerprint string, limit int) ([]*trial.Report, error)
}

// Options configures a [Server].
type Options struct {
	// MaxTrials caps the trials of a single /v1/run request.
	MaxTrials int

	// MaxWorkers caps the workers of a single /v1/run request.
	MaxWorkers int

	// MaxBody caps request bodies in bytes.
	MaxBody int64

	// Timeout bounds each request.
	Timeout time.Duration

	// Gatherer backs /metrics. Nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer

	// Reports serves /v1/reports. Nil disables the routes.
	Reports ReportFinder
}

func (o *Options) setDefaults() {
	if o.MaxTrials <= 0 {
		o.MaxTrials = DefaultMaxTrials
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.MaxBody <= 0 {
		o.MaxBody = DefaultMaxBody
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Gatherer == nil {
		o.Gatherer = prometheus.DefaultGatherer
	}
}

// Server routes API requests to a [trial.Runner].
type Server struct {
	runner *trial.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server. The runner's cache and archive are shared by all requests.
func New(runner *trial.Runner, logger *log.Logger, opts Options) *Server {
	opts.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.Timeout))
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/check", s.handleCheck)
		r.Post("/sample", s.handleSample)
		r.Post("/run", s.handleRun)
		if s.opts.Reports != nil {
			r.Get("/reports", s.handleRecent)
			r.Get("/reports/{id}", s.handleReport)
		}
	})
	return r
}

// logRequests reports each request to the HTTP hooks and the debug log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
