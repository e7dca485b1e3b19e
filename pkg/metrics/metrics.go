// Package metrics exposes Prometheus instrumentation for storage calls, consistency checks and
// HTTP responses. Every Metrics value owns its registry so several can coexist in tests.
package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blobaudit.dev/pkg/blobstore"
)

const namespace = "blobaudit"

type Metrics struct {
	registry *prometheus.Registry

	storeOps      *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	checks        *prometheus.CounterVec
	scannedTables *prometheus.CounterVec
	httpResponse  *prometheus.HistogramVec
	goRoutines    prometheus.Gauge
	alloc         prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "store_operations_total", Help: "Total number of blob store operations.",
		}, []string{"operation", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "store_operation_seconds", Help: "Latency of blob store operations in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .2, .5, 1, 2, 5, 10, 30},
		}, []string{"operation"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "checks_total", Help: "Consistency checks by resulting status.",
		}, []string{"status"}),
		scannedTables: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "scanned_tables_total", Help: "Tables found while scanning datafeed folders.",
		}, []string{"source"}),
		httpResponse: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_response_seconds", Help: "Histogram of HTTP response times in seconds",
			Buckets: []float64{.001, .003, .005, .01, .025, .05, .1, .2, .3, .4, .5, .75, 1, 2, 3, 5, 10, 30},
		}, []string{"path", "method", "status"}),
		goRoutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "go_routines", Help: "Gauge of Go routines running",
		}),
		alloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sys_memory_alloc", Help: "Gauge of Heap allocations",
		}),
	}

	m.registry.MustRegister(m.storeOps, m.storeLatency, m.checks, m.scannedTables, m.httpResponse,
		m.goRoutines, m.alloc)

	return m
}

// Registry is exposed for tests and for callers that want to add their own collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStore records the outcome and latency of one blob store call. A nil receiver is a no-op.
func (m *Metrics) ObserveStore(op string, err error, start time.Time) {
	if m == nil {
		return
	}

	m.storeOps.WithLabelValues(op, Result(err)).Inc()
	m.storeLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveCheck(status string) {
	if m == nil {
		return
	}

	m.checks.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveTables(source string, n int) {
	if m == nil {
		return
	}

	m.scannedTables.WithLabelValues(source).Add(float64(n))
}

// PushSystemStats refreshes the runtime gauges.
func (m *Metrics) PushSystemStats() {
	if m == nil {
		return
	}

	var mem runtime.MemStats

	runtime.ReadMemStats(&mem)

	m.goRoutines.Set(float64(runtime.NumGoroutine()))
	m.alloc.Set(float64(mem.Alloc))
}

// Result maps an error onto the result label.
func Result(err error) string {
	if err == nil {
		return "success"
	}

	kind, ok := blobstore.KindOf(err)
	if !ok {
		return "error"
	}

	switch kind {
	case blobstore.KindNotFound:
		return "not_found"
	case blobstore.KindAccessDenied:
		return "access_denied"
	default:
		return "transient"
	}
}
