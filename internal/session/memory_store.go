package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory. Used when no Redis URL is configured.
type MemoryStore struct {
	items *gocache.Cache
}

func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	v, ok := m.items.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	// hand out a copy so request-local edits stay invisible until Save
	stored := v.(Session)
	stored.Flashes = append([]Flash(nil), stored.Flashes...)
	return &stored, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	stored := *s
	stored.Flashes = append([]Flash(nil), s.Flashes...)
	stored.dirty = false
	m.items.Set(s.ID, stored, ttl)
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	v, ok := m.items.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	if err := m.items.Replace(id, v, ttl); err != nil {
		return ErrSessionNotFound
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.items.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}
