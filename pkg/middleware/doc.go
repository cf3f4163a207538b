// Package middleware provides HTTP middleware for the devtools server.
//
// This package includes:
//   - OpenTelemetry tracing of every request
//   - Prometheus request metrics
//   - slog request logging with panic recovery
//
// All three are plain func(http.Handler) http.Handler and compose with chi:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.Logger(logger),
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	)
//
// Labels and span names use the chi route pattern ("/tree", "/ws") rather
// than the raw path, so cardinality stays bounded.
//
// The response writer is wrapped with chi's WrapResponseWriter, which
// keeps http.Hijacker available for websocket upgrades.
package middleware
