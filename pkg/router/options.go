package router

import (
	"log/slog"

	"github.com/vango-dev/minidom/internal/config"
)

// Options configures a Router.
type Options struct {
	// DefaultPath is navigated to when nothing matches. Default: "?/".
	DefaultPath string

	// LinkPrefixes are href prefixes recognized as internal routes.
	LinkPrefixes []string

	// Logger receives navigation logs. Default: slog.Default().
	Logger *slog.Logger
}

// Option configures a Router.
type Option func(*Options)

// WithDefaultPath sets the fallback path.
func WithDefaultPath(path string) Option {
	return func(o *Options) {
		o.DefaultPath = path
	}
}

// WithLinkPrefixes sets the href prefixes intercepted as routes.
func WithLinkPrefixes(prefixes ...string) Option {
	return func(o *Options) {
		o.LinkPrefixes = prefixes
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// FromConfig applies the router section of the configuration.
func FromConfig(rc config.RouterConfig) Option {
	return func(o *Options) {
		if rc.DefaultPath != "" {
			o.DefaultPath = rc.DefaultPath
		}
		if len(rc.LinkPrefixes) > 0 {
			o.LinkPrefixes = rc.LinkPrefixes
		}
	}
}

func defaultOptions() Options {
	return Options{
		DefaultPath:  config.DefaultRoutePath,
		LinkPrefixes: []string{"?/", "/?/"},
	}
}
