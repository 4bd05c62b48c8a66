package dev

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "flatroutes").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compile duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "flatroutes",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for the dev server.
//
// Metrics collected:
//   - flatroutes_compiles_total: Counter of compiles by status
//   - flatroutes_compile_duration_seconds: Histogram of compile duration
//   - flatroutes_routes: Gauge of routes in the current manifest
//   - flatroutes_watch_events_total: Counter of file watcher events
//   - flatroutes_ws_clients: Gauge of connected WebSocket clients
type Metrics struct {
	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram
	routes          prometheus.Gauge
	watchEvents     prometheus.Counter
	wsClients       prometheus.Gauge
}

// NewMetrics creates and registers the dev server metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		compilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "compiles_total",
			Help:        "Total number of manifest compiles by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		compileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "compile_duration_seconds",
			Help:        "Manifest compile duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "routes",
			Help:        "Number of routes in the current manifest",
			ConstLabels: config.ConstLabels,
		}),

		watchEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "watch_events_total",
			Help:        "Total number of file watcher events",
			ConstLabels: config.ConstLabels,
		}),

		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "ws_clients",
			Help:        "Number of connected WebSocket clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordCompile records one compile attempt.
func (m *Metrics) RecordCompile(duration time.Duration, routes int, err error) {
	if m == nil {
		return
	}
	m.compileDuration.Observe(duration.Seconds())
	if err != nil {
		m.compilesTotal.WithLabelValues("error").Inc()
		return
	}
	m.compilesTotal.WithLabelValues("success").Inc()
	m.routes.Set(float64(routes))
}

// RecordWatchEvent records a file watcher event.
func (m *Metrics) RecordWatchEvent() {
	if m == nil {
		return
	}
	m.watchEvents.Inc()
}

// SetClientCount records the current WebSocket client count.
func (m *Metrics) SetClientCount(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}
