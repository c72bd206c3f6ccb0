// Package shared holds the request context keys, request decoding helpers,
// and response writers used by both the JSON API and the web screens.
package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// ContextKey is the type of context keys set by this package.
type ContextKey string

const (
	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// SessionIDKey holds the visitor's session ID.
	SessionIDKey ContextKey = "sessionID"

	// CookieSessionKey holds the decoded *sessions.Session.
	CookieSessionKey ContextKey = "cookieSession"
)

// SetTraceID adds a new random trace ID to ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID returns the trace ID in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithSession stores the session ID and its cookie session in ctx.
func WithSession(ctx context.Context, id uuid.UUID, sess *sessions.Session) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, id)
	return context.WithValue(ctx, CookieSessionKey, sess)
}

// GetSessionID returns the session ID in ctx.
func GetSessionID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetCookieSession returns the cookie session in ctx, or nil.
func GetCookieSession(ctx context.Context) *sessions.Session {
	sess, _ := ctx.Value(CookieSessionKey).(*sessions.Session)
	return sess
}
