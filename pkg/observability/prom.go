package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromHooks implements [TrialHooks], [CacheHooks] and [HTTPHooks] with
// Prometheus collectors.
type PromHooks struct {
	runsTotal     *prometheus.CounterVec
	trialsTotal   prometheus.Counter
	runDuration   prometheus.Histogram
	violations    prometheus.Counter
	cacheOps      *prometheus.CounterVec
	cacheBytes    prometheus.Histogram
	requestsTotal *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
}

// NewPromHooks creates the collectors and registers them with reg.
func NewPromHooks(reg prometheus.Registerer) *PromHooks {
	f := promauto.With(reg)
	return &PromHooks{
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "necklace_runs_total",
			Help: "Trial runs by result",
		}, []string{"result"}),
		trialsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "necklace_trials_total",
			Help: "Sequences built across all runs",
		}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "necklace_run_duration_seconds",
			Help:    "Wall time of a trial run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		violations: f.NewCounter(prometheus.CounterOpts{
			Name: "necklace_violations_total",
			Help: "Built sequences with two same-group neighbours",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "necklace_cache_operations_total",
			Help: "Cache operations by kind and outcome",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "necklace_cache_set_bytes",
			Help:    "Size of cache writes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "necklace_http_requests_total",
			Help: "API requests by route and status",
		}, []string{"method", "route", "status"}),
		requestTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "necklace_http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *PromHooks) OnRunStart(context.Context, string, int, int) {}

func (p *PromHooks) OnRunComplete(_ context.Context, _ string, trials int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.runsTotal.WithLabelValues(result).Inc()
	p.trialsTotal.Add(float64(trials))
	p.runDuration.Observe(d.Seconds())
}

func (p *PromHooks) OnViolation(context.Context, string, string) {
	p.violations.Inc()
}

func (p *PromHooks) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *PromHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *PromHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Observe(float64(size))
}

func (p *PromHooks) OnRequest(context.Context, string, string) {}

func (p *PromHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestTime.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ TrialHooks = (*PromHooks)(nil)
	_ CacheHooks = (*PromHooks)(nil)
	_ HTTPHooks  = (*PromHooks)(nil)
)
