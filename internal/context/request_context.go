package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RequestContextKey represents keys used in request context
type RequestContextKey string

const (
	RequestIDKey  RequestContextKey = "request_id"
	SessionIDKey  RequestContextKey = "session_id"
	StartTimeKey  RequestContextKey = "start_time"
	UserAgentKey  RequestContextKey = "user_agent"
	RemoteAddrKey RequestContextKey = "remote_addr"
)

// RequestInfo holds information about the current request
type RequestInfo struct {
	ID         string    `json:"request_id"`
	SessionID  string    `json:"session_id,omitempty"`
	StartTime  time.Time `json:"start_time"`
	UserAgent  string    `json:"user_agent,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

func withValue(ctx context.Context, key RequestContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key RequestContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithSessionID adds the navigation session ID to the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withValue(ctx, SessionIDKey, sessionID)
}

// GetSessionID retrieves the navigation session ID from context
func GetSessionID(ctx context.Context) string {
	return stringValue(ctx, SessionIDKey)
}

// WithUserAgent adds user agent to the context
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return withValue(ctx, UserAgentKey, userAgent)
}

// GetUserAgent retrieves the user agent from context
func GetUserAgent(ctx context.Context) string {
	return stringValue(ctx, UserAgentKey)
}

// WithRemoteAddr adds remote address to the context
func WithRemoteAddr(ctx context.Context, remoteAddr string) context.Context {
	return withValue(ctx, RemoteAddrKey, remoteAddr)
}

// GetRemoteAddr retrieves the remote address from context
func GetRemoteAddr(ctx context.Context) string {
	return stringValue(ctx, RemoteAddrKey)
}

// GetStartTime retrieves the start time from context
func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

// NewRequestContext stores request metadata. A fresh ID is generated when
// requestID is empty.
func NewRequestContext(ctx context.Context, requestID, userAgent, remoteAddr string) context.Context {
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = WithRequestID(ctx, requestID)
	ctx = withValue(ctx, StartTimeKey, time.Now())
	ctx = WithUserAgent(ctx, userAgent)
	ctx = WithRemoteAddr(ctx, remoteAddr)
	return ctx
}

// GetRequestInfo extracts all request information from context
func GetRequestInfo(ctx context.Context) RequestInfo {
	return RequestInfo{
		ID:         GetRequestID(ctx),
		SessionID:  GetSessionID(ctx),
		StartTime:  GetStartTime(ctx),
		UserAgent:  GetUserAgent(ctx),
		RemoteAddr: GetRemoteAddr(ctx),
	}
}
