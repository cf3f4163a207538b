package devtools

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/minidom/internal/config"
	"github.com/vango-dev/minidom/pkg/router"
	"github.com/vango-dev/minidom/pkg/snapshot"
)

// Options configures a Server.
type Options struct {
	// Router handles navigate, back and forward commands. Without one
	// those commands fail.
	Router *router.Router

	// Store receives POST /snapshot. Without one the endpoint answers 501.
	Store snapshot.Store

	// Gatherer is served on /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Registerer receives the HTTP request metrics. Without one requests
	// are not counted.
	Registerer prometheus.Registerer

	// AllowedOrigins lists websocket origins accepted besides the server's
	// own host.
	AllowedOrigins []string

	// SendBuffer is the number of messages queued per session before
	// mutation records are dropped.
	SendBuffer int

	Logger *slog.Logger
}

// Option configures a Server.
type Option func(*Options)

// WithRouter enables navigation commands.
func WithRouter(rt *router.Router) Option {
	return func(o *Options) { o.Router = rt }
}

// WithStore enables snapshots.
func WithStore(s snapshot.Store) Option {
	return func(o *Options) { o.Store = s }
}

// WithGatherer sets the metrics source.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *Options) { o.Gatherer = g }
}

// WithRegistry serves reg on /metrics and registers the request metrics
// on it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *Options) {
		o.Gatherer = reg
		o.Registerer = reg
	}
}

// WithAllowedOrigins sets the extra websocket origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *Options) { o.AllowedOrigins = origins }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// FromConfig applies the devtools section of a loaded configuration.
func FromConfig(dc config.DevtoolsConfig) Option {
	return func(o *Options) { o.AllowedOrigins = dc.AllowedOrigins }
}

func defaultOptions() Options {
	return Options{
		Gatherer:   prometheus.DefaultGatherer,
		SendBuffer: 256,
		Logger:     slog.Default(),
	}
}
