package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecorder(t *testing.T) {
	m := New()
	m.CacheLookup("data", false)
	m.CacheLookup("data", true)
	m.CacheLookup("data", true)
	m.ObserveLoad("data", 20*time.Millisecond, nil)
	m.ObserveLoad("geo", time.Millisecond, errors.New("boom"))

	out := scrape(t, m)
	assert.Contains(t, out, `harga_pangan_cache_lookups_total{kind="data",result="hit"} 2`)
	assert.Contains(t, out, `harga_pangan_cache_lookups_total{kind="data",result="miss"} 1`)
	assert.Contains(t, out, `harga_pangan_dataset_loads_total{kind="geo",outcome="error"} 1`)
	assert.Contains(t, out, `harga_pangan_dataset_load_duration_seconds_count{kind="data"} 1`)
}

func TestMiddleware(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/regions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/regions?n=99", nil))
	}

	out := scrape(t, m)
	assert.Contains(t, out, `harga_pangan_http_requests_total{code="400",method="GET",route="/api/regions"} 2`)
	assert.Contains(t, out, `harga_pangan_http_request_duration_seconds_count{route="/api/regions"} 2`)
}

func TestNewIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
