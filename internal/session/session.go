package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/folio-hub/portfolio-service/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashInfo    FlashKind = "info"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Session is the server-side record behind the session cookie. A session
// without a UserID belongs to a guest and only carries flashes.
type Session struct {
	ID        string          `json:"-"`
	UserID    uint            `json:"user_id,omitempty"`
	Username  string          `json:"username,omitempty"`
	Role      models.UserRole `json:"role,omitempty"`
	Flashes   []Flash         `json:"flashes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	dirty bool
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		dirty:     true,
	}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// AddFlash queues a message for the next page render.
func (s *Session) AddFlash(kind FlashKind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlashes returns and clears the queued messages.
func (s *Session) PopFlashes() []Flash {
	if s == nil || len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return flashes
}

// Dirty reports whether the record changed since it was loaded.
func (s *Session) Dirty() bool {
	return s != nil && s.dirty
}

// Store persists session records by id with an idle TTL.
type Store interface {
	// Get returns ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Touch restarts the TTL of a stored record without rewriting it.
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
