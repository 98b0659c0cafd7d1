package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/folio-hub/portfolio-service/internal/models"
)

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds session records to the session cookie.
type Manager struct {
	store Store
	opts  Options
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "portfolio_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{store: store, opts: opts}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Load returns the session named by the request cookie. A missing cookie or
// an unknown id yields (nil, nil). A found session is idle-refreshed: its
// record TTL and cookie lifetime restart at SESSION_TTL.
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	s, err := m.store.Get(ctx, cookie.Value)
	if err == nil {
		err = m.store.Touch(ctx, s.ID, m.opts.TTL)
	}
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	http.SetCookie(w, m.cookie(s.ID, int(m.opts.TTL.Seconds())))
	return s, nil
}

// Ensure returns s, or a fresh guest session when s is nil.
func (m *Manager) Ensure(s *Session) *Session {
	if s != nil {
		return s
	}
	return newSession()
}

// Save stores s and refreshes the cookie. Both the record TTL and the cookie
// lifetime restart at SESSION_TTL.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s == nil {
		return nil
	}
	if err := m.store.Save(ctx, s, m.opts.TTL); err != nil {
		return err
	}
	s.dirty = false
	http.SetCookie(w, m.cookie(s.ID, int(m.opts.TTL.Seconds())))
	return nil
}

// Login replaces the current session with a new id bound to user.
// Queued flashes carry over.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, current *Session, user *models.User) (*Session, error) {
	next := newSession()
	next.UserID = user.ID
	next.Username = user.Username
	next.Role = user.Role()

	if current != nil {
		next.Flashes = current.Flashes
		if err := m.store.Delete(ctx, current.ID); err != nil {
			return nil, fmt.Errorf("failed to drop previous session: %w", err)
		}
	}

	if err := m.Save(ctx, w, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Destroy deletes the record and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, m.cookie("", -1))
	if s == nil {
		return nil
	}
	return m.store.Delete(ctx, s.ID)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
