// Package metrics holds the Prometheus instruments for the layout, build and
// route pipeline. A CLI run is short-lived, so the registry is written out as
// a node-exporter textfile rather than served.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusIndexed  = "indexed"
	StatusRejected = "rejected"
)

// Registry holds all metrics for the application.
type Registry struct {
	LayoutRuns       *prometheus.CounterVec
	LayoutIterations prometheus.Gauge
	LayoutFinalForce prometheus.Gauge
	LayoutDuration   prometheus.Histogram

	BuildPoints *prometheus.CounterVec
	IndexPoints prometheus.Gauge

	Routes        *prometheus.CounterVec
	RouteDistance prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric initialised.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initLayoutMetrics()
	r.initIndexMetrics()
	return r
}

func (r *Registry) initLayoutMetrics() {
	r.LayoutRuns = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_layout_runs_total",
			Help: "Layout runs by outcome",
		},
		[]string{"status"},
	)
	r.LayoutIterations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_layout_iterations",
			Help: "Iterations performed by the last layout run",
		},
	)
	r.LayoutFinalForce = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_layout_final_force",
			Help: "Total force magnitude in the last layout iteration",
		},
	)
	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_layout_duration_seconds",
			Help:    "Wall time of a layout run",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)
}

func (r *Registry) initIndexMetrics() {
	r.BuildPoints = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_build_points_total",
			Help: "Sub-vibe definitions processed by index builds, by outcome",
		},
		[]string{"status"},
	)
	r.IndexPoints = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_index_points",
			Help: "Points in the most recently built or loaded index",
		},
	)
	r.Routes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_route_total",
			Help: "Route queries by outcome",
		},
		[]string{"status"},
	)
	r.RouteDistance = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_route_distance",
			Help:    "Distance from an embedded query to its nearest point",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// RecordLayout records one layout run.
func (r *Registry) RecordLayout(iterations int, finalForce float64, elapsed time.Duration, err error) {
	if err != nil {
		r.LayoutRuns.WithLabelValues(StatusError).Inc()
		return
	}
	r.LayoutRuns.WithLabelValues(StatusOK).Inc()
	r.LayoutIterations.Set(float64(iterations))
	r.LayoutFinalForce.Set(finalForce)
	r.LayoutDuration.Observe(elapsed.Seconds())
}

// RecordBuild records the outcome of an index build.
func (r *Registry) RecordBuild(indexed, rejected int) {
	r.BuildPoints.WithLabelValues(StatusIndexed).Add(float64(indexed))
	r.BuildPoints.WithLabelValues(StatusRejected).Add(float64(rejected))
	r.IndexPoints.Set(float64(indexed))
}

// RecordRoute records one route query.
func (r *Registry) RecordRoute(distance float64, err error) {
	if err != nil {
		r.Routes.WithLabelValues(StatusError).Inc()
		return
	}
	r.Routes.WithLabelValues(StatusOK).Inc()
	r.RouteDistance.Observe(distance)
}
