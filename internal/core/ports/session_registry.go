package ports

import (
	"context"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/session"
)

// SessionRegistry tracks the open sessions of the station. Ending a session
// invalidates its token even before the token expires.
type SessionRegistry interface {
	Start(ctx context.Context, s session.Session) error

	// Get returns *errs.ObjectNotFoundError for unknown or ended sessions.
	Get(ctx context.Context, id kernel.UUID) (session.Session, error)

	End(ctx context.Context, id kernel.UUID) error
}
