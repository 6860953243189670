package server

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/crafttable/pkg/observability"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crafttable_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crafttable_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crafttable_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Pipeline metrics
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crafttable_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"stage", "result"},
	)

	recipesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crafttable_recipes_loaded",
			Help: "Recipes decoded by the last load stage",
		},
	)

	recipesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crafttable_recipes_skipped_total",
			Help: "Recipes skipped for per-recipe faults",
		},
	)

	indexGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crafttable_index_groups",
			Help: "Recipe groups written by the last index stage",
		},
	)

	loopPairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crafttable_loop_pairs",
			Help: "Crafting loop pairs found by the last loops stage",
		},
	)

	// Store metrics
	storeOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crafttable_store_operations_total",
			Help: "Artifact store operations",
		},
		[]string{"backend", "op", "result"},
	)

	storeBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crafttable_store_written_bytes_total",
			Help: "Bytes written to the artifact store",
		},
		[]string{"backend"},
	)
)

// Metrics implements the observability hooks on Prometheus collectors.
type Metrics struct{}

var (
	_ observability.PipelineHooks = Metrics{}
	_ observability.StoreHooks    = Metrics{}
	_ observability.HTTPHooks     = Metrics{}
)

var registerOnce sync.Once

// RegisterMetrics installs Metrics as the process-wide hooks. It is safe to
// call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		observability.SetPipelineHooks(Metrics{})
		observability.SetStoreHooks(Metrics{})
		observability.SetHTTPHooks(Metrics{})
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (Metrics) OnLoadStart(context.Context, string) {}

func (Metrics) OnLoadComplete(_ context.Context, _ string, recipes int, d time.Duration, err error) {
	stageDuration.WithLabelValues("load", result(err)).Observe(d.Seconds())
	if err == nil {
		recipesLoaded.Set(float64(recipes))
	}
}

func (Metrics) OnIndexStart(context.Context, int) {}

func (Metrics) OnIndexComplete(_ context.Context, groups, skipped int, d time.Duration, err error) {
	stageDuration.WithLabelValues("index", result(err)).Observe(d.Seconds())
	recipesSkipped.Add(float64(skipped))
	if err == nil {
		indexGroups.Set(float64(groups))
	}
}

func (Metrics) OnLoopsStart(context.Context, int) {}

func (Metrics) OnLoopsComplete(_ context.Context, pairs int, d time.Duration, err error) {
	stageDuration.WithLabelValues("loops", result(err)).Observe(d.Seconds())
	if err == nil {
		loopPairs.Set(float64(pairs))
	}
}

func (Metrics) OnStoreRead(_ context.Context, backend string, hit bool) {
	res := "hit"
	if !hit {
		res = "miss"
	}
	storeOps.WithLabelValues(backend, "read", res).Inc()
}

func (Metrics) OnStoreWrite(_ context.Context, backend string, size int) {
	storeOps.WithLabelValues(backend, "write", "ok").Inc()
	storeBytes.WithLabelValues(backend).Add(float64(size))
}

func (Metrics) OnStoreDelete(_ context.Context, backend string) {
	storeOps.WithLabelValues(backend, "delete", "ok").Inc()
}

func (Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
