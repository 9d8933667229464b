// Package metrics holds the Prometheus collectors for optimization runs and
// the HTTP API, registered on a dedicated registry.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// OptimizationRuns counts runs by algorithm and outcome ("ok", "invalid", "exhausted", "error")
	OptimizationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleetpack_optimization_runs_total", Help: "Optimization runs by algorithm and outcome."},
		[]string{"algorithm", "outcome"},
	)
	// OptimizationDuration records run wall time in seconds
	OptimizationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "fleetpack_optimization_duration_seconds", Help: "Optimization run duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}},
		[]string{"algorithm"},
	)
	// BestDistance is the total distance of the latest successful run
	BestDistance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "fleetpack_best_distance", Help: "Total route distance of the latest successful run."},
		[]string{"algorithm"},
	)
	// UnassignedPackages counts packages left out of successful runs
	UnassignedPackages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleetpack_unassigned_packages_total", Help: "Packages left unassigned by successful runs."},
		[]string{"algorithm"},
	)

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)
	// RateLimited counts requests rejected by the limiter
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "http_rate_limited_total", Help: "Requests rejected by the rate limiter."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call repeatedly.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OptimizationRuns)
		Registry.MustRegister(OptimizationDuration)
		Registry.MustRegister(BestDistance)
		Registry.MustRegister(UnassignedPackages)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RateLimited)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObserveRun records a successful optimization run.
func ObserveRun(algorithm string, elapsed time.Duration, distance float64, unassigned int) {
	OptimizationRuns.WithLabelValues(algorithm, "ok").Inc()
	OptimizationDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	BestDistance.WithLabelValues(algorithm).Set(distance)
	UnassignedPackages.WithLabelValues(algorithm).Add(float64(unassigned))
}

// ObserveFailure records a run that returned an error.
func ObserveFailure(algorithm, outcome string) {
	OptimizationRuns.WithLabelValues(algorithm, outcome).Inc()
}
