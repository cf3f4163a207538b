package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logger logs each request once served and turns handler panics into 500
// responses.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("handler panic",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", p,
						"stack", string(debug.Stack()))
					if ww.Status() == 0 {
						http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					}
					return
				}
				logger.Debug("request",
					"method", r.Method,
					"route", routePattern(r),
					"status", status(ww),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
