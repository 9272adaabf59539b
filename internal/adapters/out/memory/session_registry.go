package memory

import (
	"context"
	"sync"
	"time"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"
)

var _ ports.SessionRegistry = (*SessionRegistry)(nil)

// SessionRegistry keeps open sessions until they end or expire.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	now      func() time.Time
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]session.Session),
		now:      time.Now,
	}
}

func (r *SessionRegistry) Start(_ context.Context, s session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired()
	r.sessions[s.ID().String()] = s
	return nil
}

// Get reports expired sessions as missing and forgets them.
func (r *SessionRegistry) Get(_ context.Context, id kernel.UUID) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id.String()]
	if !ok {
		return session.Session{}, errs.NewObjectNotFoundError("session", id.String())
	}
	if err := s.CheckActive(r.now()); err != nil {
		delete(r.sessions, id.String())
		return session.Session{}, errs.NewObjectNotFoundErrorWithCause("session", id.String(), err)
	}
	return s, nil
}

func (r *SessionRegistry) End(_ context.Context, id kernel.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id.String()]; !ok {
		return errs.NewObjectNotFoundError("session", id.String())
	}
	delete(r.sessions, id.String())
	return nil
}

func (r *SessionRegistry) evictExpired() {
	now := r.now()
	for id, s := range r.sessions {
		if s.CheckActive(now) != nil {
			delete(r.sessions, id)
		}
	}
}
