package models

import (
	"errors"
	"net/url"
	"strings"
)

// Validation errors surfaced to clients as 400s
var (
	ErrMissingTarget = errors.New("missing target param")
	ErrMissingPath   = errors.New("missing path param")
	ErrInvalidDelta  = errors.New("delta must not be zero")
)

// IsValidationError reports whether err is caused by a malformed request
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTarget) ||
		errors.Is(err, ErrMissingPath) ||
		errors.Is(err, ErrInvalidDelta)
}

// ResolveRequest asks which route a path maps to
type ResolveRequest struct {
	Path string `json:"path"`
}

// Validate checks that a path was supplied
func (r *ResolveRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return ErrMissingPath
	}
	return nil
}

// NavigateRequest moves a session to a route, by name or by path
type NavigateRequest struct {
	SessionID string              `json:"session_id,omitempty"`
	Target    string              `json:"target"`
	Params    map[string]string   `json:"params,omitempty"`
	Query     map[string][]string `json:"query,omitempty"`
	Replace   bool                `json:"replace,omitempty"`
}

// Validate checks if the request has all required parameters
func (r *NavigateRequest) Validate() error {
	if strings.TrimSpace(r.Target) == "" {
		return ErrMissingTarget
	}
	return nil
}

// Normalize trims whitespace from identifiers
func (r *NavigateRequest) Normalize() {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Target = strings.TrimSpace(r.Target)
}

// QueryValues returns the query as url.Values
func (r *NavigateRequest) QueryValues() url.Values {
	if len(r.Query) == 0 {
		return nil
	}
	return url.Values(r.Query)
}

// TraverseRequest moves a session through its history
type TraverseRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Delta     int    `json:"delta"`
}

// Validate rejects a zero delta
func (r *TraverseRequest) Validate() error {
	if r.Delta == 0 {
		return ErrInvalidDelta
	}
	return nil
}
