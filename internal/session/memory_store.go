package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps sessions in a bounded LRU. It is used when Redis is
// disabled and does not survive restarts.
type MemoryStore struct {
	cache *expirable.LRU[uuid.UUID, []byte]
}

func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[uuid.UUID, []byte](capacity, nil, ttl),
	}
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (State, error) {
	data, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	// Re-adding refreshes the expiry.
	s.cache.Add(id, data)
	return Decode(data)
}

func (s *MemoryStore) Save(ctx context.Context, id uuid.UUID, st State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	s.cache.Add(id, data)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.cache.Remove(id)
	return nil
}
