package commands

import (
	"errors"
	"slices"

	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/guard"
)

var ErrCreateAppOrderCommandIsNotConstructed = errors.New(
	"CreateAppOrderCommand must be created via NewCreateAppOrderCommand constructor",
)

// CreateAppOrderCommand places an order from the menu. The customer is the
// session's user.
type CreateAppOrderCommand struct { //nolint:recvcheck //using for validation
	session session.Session
	items   []OrderItem

	guard guard.ConstructorGuard
}

func NewCreateAppOrderCommand(sess session.Session, items []OrderItem) (CreateAppOrderCommand, error) {
	command := CreateAppOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSession(sess),
		command.setItems(items),
	); err != nil {
		return CreateAppOrderCommand{}, err
	}

	return command, nil
}

func (c CreateAppOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateAppOrderCommandIsNotConstructed)
}

func (c CreateAppOrderCommand) Session() session.Session {
	return c.session
}

func (c CreateAppOrderCommand) Items() []OrderItem {
	return slices.Clone(c.items)
}

func (c *CreateAppOrderCommand) setSession(sess session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	c.session = sess
	return nil
}

func (c *CreateAppOrderCommand) setItems(items []OrderItem) error {
	valid, err := validateItems(items)
	if err != nil {
		return err
	}
	c.items = valid
	return nil
}
