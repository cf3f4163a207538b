package render

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/minidom/internal/config"
)

// defaultAttrDenylist names props that browsers expose as read-only or
// ambiguous fields; they are always committed as attributes.
var defaultAttrDenylist = []string{"list", "form", "selected"}

// Config configures a Renderer.
type Config struct {
	// StrictHooks panics on hook order changes instead of logging them.
	StrictHooks bool

	// AttrDenylist names plain props always committed as attributes.
	AttrDenylist []string

	// Logger receives pass and diagnostic logs. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records pass and mutation counts. nil disables metrics.
	Metrics *Metrics

	// Tracer starts the render.pass spans. Default: the global provider.
	Tracer trace.Tracer

	// Loop runs deferred passes. Default: a new Loop.
	Loop *Loop

	// Context is cancelled when the renderer closes; async factories
	// receive a child of it.
	Context context.Context
}

// Option configures a Renderer.
type Option func(*Config)

// WithStrictHooks makes hook order changes panic.
func WithStrictHooks(strict bool) Option {
	return func(c *Config) {
		c.StrictHooks = strict
	}
}

// WithAttrDenylist replaces the attribute denylist.
func WithAttrDenylist(names ...string) Option {
	return func(c *Config) {
		c.AttrDenylist = names
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics enables metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

// WithLoop shares a loop between renderers.
func WithLoop(l *Loop) Option {
	return func(c *Config) {
		c.Loop = l
	}
}

// WithContext sets the parent context of async factories.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// FromConfig applies the render section of a loaded configuration.
func FromConfig(rc config.RenderConfig) Option {
	return func(c *Config) {
		c.StrictHooks = rc.StrictHooks
		if len(rc.AttrDenylist) > 0 {
			c.AttrDenylist = rc.AttrDenylist
		}
	}
}

func defaultConfig() Config {
	return Config{
		AttrDenylist: defaultAttrDenylist,
	}
}
