package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/prajwalbharadwajbm/hashroute/internal/cache"
	"github.com/prajwalbharadwajbm/hashroute/internal/config"
	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/repository"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
	"github.com/prajwalbharadwajbm/hashroute/internal/views"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte(`<div id="app"></div>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "app.js"), []byte("console.log(1)"), 0o644))

	table, err := views.NewTable()
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	m := metrics.NewPrometheusMetrics(registry)

	hybridCache, err := cache.NewHybridCache(cache.CacheConfig{
		DefaultTTL:      time.Minute,
		MemoryCacheSize: 100,
		EnableMemory:    true,
		CleanupInterval: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { hybridCache.Close() })

	events := repository.NewInstrumentedEventLog(repository.NewMemoryEventLog(100), m)
	svc := service.NewNavigationService(table, cache.NewSessionStore(hybridCache, time.Minute, m), events, log.NewNopLogger())

	return Routes(routeDeps{
		service:  svc,
		logger:   log.NewNopLogger(),
		metrics:  m,
		registry: registry,
		spa:      config.SPAConfig{StaticPath: dist},
	})
}

func doJSON(t *testing.T, h http.Handler, method, target, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes_NavigationFlow(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "GET", "/api/navigation", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get("X-Session-ID")
	require.NotEmpty(t, sessionID)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var state models.NavigationState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "#/", state.Location)
	require.NotNil(t, state.Current)
	assert.Equal(t, "Home", state.Current.Name)

	w = doJSON(t, h, "POST", "/api/navigation", sessionID, `{"target":"Home"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.False(t, state.Changed)
	assert.False(t, state.CanGoBack)

	w = doJSON(t, h, "POST", "/api/navigation", sessionID, `{"target":"/does-not-exist"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, "POST", "/api/navigation/go", sessionID, `{"delta":-1}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "#/", state.Location)
	assert.False(t, state.Changed)
}

func TestRoutes_Resolve(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "GET", "/api/resolve?path=/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var match models.RouteMatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &match))
	assert.Equal(t, "Home", match.Name)
	assert.Equal(t, "home", match.View)

	w = doJSON(t, h, "GET", "/api/resolve?path=/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "route not found: /does-not-exist", errResp.Error)
}

func TestRoutes_StaticAndMetrics(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "GET", "/app.js", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = doJSON(t, h, "GET", "/some/deep/link", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div id="app"></div>`)

	w = doJSON(t, h, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, "GET", "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hashroute_http_requests_total")
}
