package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists one State per session id. Get returns ErrNotFound for
// unknown or expired sessions.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (State, error)
	Save(ctx context.Context, id uuid.UUID, st State) error
	Delete(ctx context.Context, id uuid.UUID) error
}
