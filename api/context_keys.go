package api

import (
	"context"

	"plinth/storage"
)

// contextKey is a private type to prevent context key collisions across
// packages.
type contextKey string

const (
	// ContextKeyRequestID stores the request's UUID (string)
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeySession stores the request-scoped database session
	// (*storage.Session)
	ContextKeySession contextKey = "db_session"
)

// RequestIDFromContext returns the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// SessionFromContext returns the request's database session, or nil when
// called outside a request handled by the session middleware.
func SessionFromContext(ctx context.Context) *storage.Session {
	session, _ := ctx.Value(ContextKeySession).(*storage.Session)
	return session
}
