package commands

import (
	"errors"
	"fmt"
	"slices"

	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

var ErrCreateTableOrderCommandIsNotConstructed = errors.New(
	"CreateTableOrderCommand must be created via NewCreateTableOrderCommand constructor",
)

// CreateTableOrderCommand opens a new order for a table. The waiter is the
// session's user.
type CreateTableOrderCommand struct { //nolint:recvcheck //using for validation
	session     session.Session
	tableNumber int
	items       []OrderItem

	guard guard.ConstructorGuard
}

func NewCreateTableOrderCommand(
	sess session.Session,
	tableNumber int,
	items []OrderItem,
) (CreateTableOrderCommand, error) {
	command := CreateTableOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSession(sess),
		command.setTableNumber(tableNumber),
		command.setItems(items),
	); err != nil {
		return CreateTableOrderCommand{}, err
	}

	return command, nil
}

func (c CreateTableOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateTableOrderCommandIsNotConstructed)
}

func (c CreateTableOrderCommand) Session() session.Session {
	return c.session
}

func (c CreateTableOrderCommand) TableNumber() int {
	return c.tableNumber
}

func (c CreateTableOrderCommand) Items() []OrderItem {
	return slices.Clone(c.items)
}

func (c *CreateTableOrderCommand) setSession(sess session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	c.session = sess
	return nil
}

func (c *CreateTableOrderCommand) setTableNumber(tableNumber int) error {
	if tableNumber <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("tableNumber", fmt.Errorf("%d is not a table", tableNumber))
	}
	c.tableNumber = tableNumber
	return nil
}

func (c *CreateTableOrderCommand) setItems(items []OrderItem) error {
	valid, err := validateItems(items)
	if err != nil {
		return err
	}
	c.items = valid
	return nil
}
