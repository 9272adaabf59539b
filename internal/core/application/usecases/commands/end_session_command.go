package commands

import (
	"errors"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/pkg/guard"
)

var ErrEndSessionCommandIsNotConstructed = errors.New(
	"EndSessionCommand must be created via NewEndSessionCommand constructor",
)

// EndSessionCommand is a logout.
type EndSessionCommand struct {
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

func NewEndSessionCommand(sessionID kernel.UUID) (EndSessionCommand, error) {
	if err := sessionID.Validate(); err != nil {
		return EndSessionCommand{}, err
	}

	return EndSessionCommand{
		sessionID: sessionID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c EndSessionCommand) Validate() error {
	return c.guard.Validate(ErrEndSessionCommandIsNotConstructed)
}

func (c EndSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}
