package session

import (
	"errors"
	"fmt"
	"time"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

var (
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession or RestoreSession")
	ErrSessionExpired          = errors.New("session expired")
)

// Session is the explicit application context of one signed-in user.
type Session struct {
	id        kernel.UUID
	userID    kernel.ID
	userName  string
	role      Role
	startedAt time.Time
	expiresAt time.Time

	guard guard.ConstructorGuard
}

// NewSession opens a session lasting ttl from startedAt.
func NewSession(userID kernel.ID, userName string, role Role, startedAt time.Time, ttl time.Duration) (Session, error) {
	if ttl <= 0 {
		return Session{}, errs.NewValueIsInvalidErrorWithCause("ttl is invalid", fmt.Errorf("%s is not positive", ttl))
	}
	return RestoreSession(kernel.NewUUID(), userID, userName, role, startedAt, startedAt.Add(ttl))
}

// RestoreSession rebuilds a session from a token's claims.
func RestoreSession(
	id kernel.UUID,
	userID kernel.ID,
	userName string,
	role Role,
	startedAt, expiresAt time.Time,
) (Session, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		role.Validate(),
	); err != nil {
		return Session{}, err
	}
	if !expiresAt.After(startedAt) {
		return Session{}, errs.NewValueIsInvalidErrorWithCause(
			"expiry is invalid",
			fmt.Errorf("%s is not after %s", expiresAt.Format(time.RFC3339), startedAt.Format(time.RFC3339)),
		)
	}

	return Session{
		id:        id,
		userID:    userID,
		userName:  userName,
		role:      role,
		startedAt: startedAt,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (s Session) Validate() error {
	return s.guard.Validate(ErrSessionIsNotConstructed)
}

// CheckActive fails for unconstructed or expired sessions.
func (s Session) CheckActive(now time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !now.Before(s.expiresAt) {
		return ErrSessionExpired
	}
	return nil
}

func (s Session) ID() kernel.UUID {
	return s.id
}

func (s Session) UserID() kernel.ID {
	return s.userID
}

func (s Session) UserName() string {
	return s.userName
}

func (s Session) Role() Role {
	return s.role
}

func (s Session) StartedAt() time.Time {
	return s.startedAt
}

func (s Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// CanSee reports whether the session's user may see and act on o. Customers
// only reach their own orders. Waiters reach the table orders they took and
// the ones no waiter has taken yet. Other roles reach every order.
func (s Session) CanSee(o *order.Order) bool {
	switch s.role {
	case Customer:
		customer := o.Customer()
		return customer != nil && customer.ID.IsEqual(s.userID)
	case Waiter:
		waiter := o.Waiter()
		return waiter == nil || waiter.ID.IsZero() || waiter.ID.IsEqual(s.userID)
	default:
		return true
	}
}
