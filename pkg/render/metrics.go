package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/minidom/pkg/dom"
)

// MetricsConfig configures the Prometheus render metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "minidom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "render").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the render metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "minidom",
		Subsystem: "render",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a renderer. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	passes       *prometheus.CounterVec
	passDuration prometheus.Histogram
	passErrors   prometheus.Counter
	mutations    *prometheus.CounterVec
	effects      prometheus.Counter
	cleanups     prometheus.Counter
	async        *prometheus.CounterVec
	hookErrors   prometheus.Counter
	taskPanics   prometheus.Counter
}

// NewMetrics registers the render collectors.
//
// Metrics collected:
//   - minidom_render_passes_total: passes by kind (render, rerender)
//   - minidom_render_pass_duration_seconds: pass duration
//   - minidom_render_pass_errors_total: passes that returned an error
//   - minidom_render_mutations_total: document mutations by op
//   - minidom_render_effects_total: effect mounts run
//   - minidom_render_cleanups_total: effect cleanups run
//   - minidom_render_async_settlements_total: settlements by result (applied, discarded)
//   - minidom_render_hook_errors_total: hook order diagnostics
//   - minidom_render_loop_panics_total: recovered loop task panics
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		passErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_errors_total",
			Help:        "Total number of render passes that failed",
			ConstLabels: config.ConstLabels,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total number of document mutations by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		effects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of effect mounts run",
			ConstLabels: config.ConstLabels,
		}),

		cleanups: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cleanups_total",
			Help:        "Total number of effect cleanups run",
			ConstLabels: config.ConstLabels,
		}),

		async: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "async_settlements_total",
			Help:        "Total number of async hook settlements by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		hookErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_errors_total",
			Help:        "Total number of hook order diagnostics",
			ConstLabels: config.ConstLabels,
		}),

		taskPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "loop_panics_total",
			Help:        "Total number of recovered loop task panics",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordPass(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(kind).Inc()
	m.passDuration.Observe(d.Seconds())
	if err != nil {
		m.passErrors.Inc()
	}
}

func (m *Metrics) recordMutation(op dom.Op) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) recordEffect() {
	if m == nil {
		return
	}
	m.effects.Inc()
}

func (m *Metrics) recordCleanup() {
	if m == nil {
		return
	}
	m.cleanups.Inc()
}

func (m *Metrics) recordSettlement(applied bool) {
	if m == nil {
		return
	}
	if applied {
		m.async.WithLabelValues("applied").Inc()
	} else {
		m.async.WithLabelValues("discarded").Inc()
	}
}

func (m *Metrics) recordHookError() {
	if m == nil {
		return
	}
	m.hookErrors.Inc()
}

func (m *Metrics) recordPanic() {
	if m == nil {
		return
	}
	m.taskPanics.Inc()
}
