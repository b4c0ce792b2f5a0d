package handlers

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	sessionContextKey    contextKey = "session_id"
	newSessionContextKey contextKey = "session_new"
)

func SetSessionIDInContext(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// GetSessionIDFromContext returns the visitor's session id. The nil UUID is
// never reported as present.
func GetSessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// MarkNewSessionInContext flags an id minted for this request because the
// client sent no usable session cookie.
func MarkNewSessionInContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, newSessionContextKey, true)
}

func IsNewSession(ctx context.Context) bool {
	isNew, _ := ctx.Value(newSessionContextKey).(bool)
	return isNew
}
