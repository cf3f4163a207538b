package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func newRouter(mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(r, "id")))
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheusLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(WithRegistry(reg)))

	serve(r, "/items/1")
	serve(r, "/items/2")
	serve(r, "/fail")
	serve(r, "/nowhere")

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "minidom_devtools_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			counts[labels["route"]+" "+labels["status"]] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"/items/{id} 200": 2,
		"/fail 500":       1,
		"unmatched 404":   1,
	}, counts)
}

func TestPrometheusInFlightReturnsToZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(WithRegistry(reg), WithNamespace("test"), WithSubsystem("http")))
	serve(r, "/items/1")

	n, err := testutil.GatherAndCount(reg, "test_http_requests_in_flight")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoggerRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(Logger(logger))

	rec := serve(r, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "handler panic")
	assert.Contains(t, buf.String(), "kaboom")

	buf.Reset()
	rec = serve(r, "/items/7")
	assert.Equal(t, "7", rec.Body.String())
	assert.Contains(t, buf.String(), "route=/items/{id}")
	assert.Contains(t, buf.String(), "status=200")
}

func TestOpenTelemetryPassesThrough(t *testing.T) {
	var extracted, filtered int
	mw := OpenTelemetry(
		WithTracerName("test"),
		WithAttributeExtractor(func(r *http.Request) []attribute.KeyValue {
			extracted++
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
		WithRequestFilter(func(r *http.Request) bool {
			filtered++
			return r.URL.Path != "/fail"
		}),
	)
	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, SpanFromContext(r.Context()))
		assert.Equal(t, "9", chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Equal(t, http.StatusAccepted, serve(r, "/items/9").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, "/fail").Code)
	assert.Equal(t, 2, filtered)
	assert.Equal(t, 1, extracted)
}

func TestEndSpan(t *testing.T) {
	_, span := StartSpan(context.Background(), "work", attribute.Int("n", 1))
	assert.NotPanics(t, func() { EndSpan(span, assert.AnError) })
}
