package navigation

import (
	"errors"
	"fmt"
	"strings"
)

// History is the strategy a controller uses to record where the user is
type History interface {
	// Location returns the current route path, including any query string
	Location() string
	// Href renders a route path in the form the browser address bar uses
	Href(path string) string
	Push(path string)
	Replace(path string)
	// Go moves delta entries through the stack. It reports false and leaves
	// the position unchanged when the target is out of range
	Go(delta int) bool
	Index() int
	Len() int
	Snapshot() State
	Restore(state State) error
}

// State is a serialisable copy of a history stack
type State struct {
	Entries []string `json:"entries"`
	Index   int      `json:"index"`
}

// ErrInvalidState is returned when restoring a malformed history snapshot
var ErrInvalidState = errors.New("invalid history state")

// HashHistory keeps the route in the URL fragment, so "/" is shown as "#/".
// The server never sees the route and only has to serve the document
type HashHistory struct {
	base       string
	entries    []string
	index      int
	maxEntries int
}

// DefaultMaxEntries bounds a history stack the way browsers do
const DefaultMaxEntries = 50

// HistoryOption configures a HashHistory
type HistoryOption func(*HashHistory)

// WithMaxEntries caps the stack; the oldest entries are dropped first.
// n <= 0 keeps DefaultMaxEntries
func WithMaxEntries(n int) HistoryOption {
	return func(h *HashHistory) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// NewHashHistory creates a hash history starting at the root route. base is
// the document path the fragment is appended to and may be empty
func NewHashHistory(base string, opts ...HistoryOption) *HashHistory {
	h := &HashHistory{
		base:       base,
		entries:    []string{"/"},
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// DecodeHash extracts the route path from an address. It accepts a bare
// fragment ("#/about"), a path ("/about") or a full URL with a fragment
func DecodeHash(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[i+1:]
	} else if strings.Contains(raw, "://") {
		// A URL without a fragment sits at the root route
		return "/"
	}
	if raw == "" {
		return "/"
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}

func (h *HashHistory) Location() string {
	return h.entries[h.index]
}

func (h *HashHistory) Href(path string) string {
	return h.base + "#" + DecodeHash(path)
}

func (h *HashHistory) Push(path string) {
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
	h.trim()
}

func (h *HashHistory) Replace(path string) {
	h.entries[h.index] = path
}

func (h *HashHistory) Go(delta int) bool {
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		return false
	}
	h.index = target
	return true
}

func (h *HashHistory) Index() int {
	return h.index
}

func (h *HashHistory) Len() int {
	return len(h.entries)
}

func (h *HashHistory) Snapshot() State {
	entries := make([]string, len(h.entries))
	copy(entries, h.entries)
	return State{Entries: entries, Index: h.index}
}

func (h *HashHistory) Restore(state State) error {
	if len(state.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidState)
	}
	if state.Index < 0 || state.Index >= len(state.Entries) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidState, state.Index, len(state.Entries))
	}
	entries := make([]string, len(state.Entries))
	for i, e := range state.Entries {
		entries[i] = DecodeHash(e)
	}
	h.entries = entries
	h.index = state.Index
	h.trim()
	return nil
}

// trim keeps at most maxEntries entries around the current one, dropping
// the oldest first
func (h *HashHistory) trim() {
	if len(h.entries) <= h.maxEntries {
		return
	}
	start := len(h.entries) - h.maxEntries
	if h.index < start {
		start = h.index
	}
	entries := make([]string, h.maxEntries)
	copy(entries, h.entries[start:start+h.maxEntries])
	h.entries = entries
	h.index -= start
}
