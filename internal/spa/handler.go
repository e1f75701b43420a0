// Package spa serves the compiled single-page application. Routes live in the
// URL fragment, so any path that is not a real file gets index.html.
package spa

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

func init() {
	_ = mime.AddExtensionType(".js", "application/javascript; charset=utf-8")
}

// Handler serves files from a static directory with an index fallback
type Handler struct {
	staticPath string
	indexPath  string
	files      http.Handler
}

// NewHandler creates a handler for the bundle in staticPath. indexPath
// defaults to staticPath/index.html.
func NewHandler(staticPath, indexPath string) *Handler {
	if indexPath == "" {
		indexPath = filepath.Join(staticPath, "index.html")
	}
	return &Handler{
		staticPath: staticPath,
		indexPath:  indexPath,
		files:      http.FileServer(http.Dir(staticPath)),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	root, err := filepath.Abs(h.staticPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Cleaning a rooted path cannot climb above the root
	path := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR), err == nil && info.IsDir():
		h.serveIndex(w, r)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.files.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.indexPath)
	if err != nil {
		http.Error(w, "index not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, filepath.Base(h.indexPath), info.ModTime(), f)
}
