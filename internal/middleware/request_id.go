package middleware

import (
	"net/http"

	reqcontext "github.com/prajwalbharadwajbm/hashroute/internal/context"
)

const (
	RequestIDHeader = "X-Request-ID"
	SessionIDHeader = "X-Session-ID"
)

// RequestIDMiddleware adds request IDs and the caller's navigation session
// to incoming requests
type RequestIDMiddleware struct{}

// NewRequestIDMiddleware creates a new request ID middleware
func NewRequestIDMiddleware() *RequestIDMiddleware {
	return &RequestIDMiddleware{}
}

// Middleware returns the HTTP middleware function for request IDs
func (m *RequestIDMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Keep an upstream ID when there is one
		ctx := reqcontext.NewRequestContext(r.Context(), r.Header.Get(RequestIDHeader), r.UserAgent(), r.RemoteAddr)

		sessionID := r.Header.Get(SessionIDHeader)
		if sessionID == "" {
			sessionID = r.URL.Query().Get("session")
		}
		if sessionID != "" {
			ctx = reqcontext.WithSessionID(ctx, sessionID)
		}

		w.Header().Set(RequestIDHeader, reqcontext.GetRequestID(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
