package spa

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<div id=app></div>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func TestHandler_ServesExistingFile(t *testing.T) {
	h := NewHandler(setupBundle(t), "")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/js/app.js", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())
	assert.Equal(t, "application/javascript; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestHandler_FallsBackToIndex(t *testing.T) {
	h := NewHandler(setupBundle(t), "")

	for _, path := range []string{"/", "/missing/page", "/js", "/../../etc/passwd", "/index.html/foo", "/js/app.js/extra"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			req.URL.Path = path
			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "<div id=app></div>")
			assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
		})
	}
}

func TestHandler_RejectsWrites(t *testing.T) {
	h := NewHandler(setupBundle(t), "")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}

func TestHandler_MissingIndex(t *testing.T) {
	h := NewHandler(t.TempDir(), "")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/anything", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
