package commands

import (
	"errors"
	"fmt"
	"slices"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

var ErrAmendTableOrderCommandIsNotConstructed = errors.New(
	"AmendTableOrderCommand must be created via NewAmendTableOrderCommand constructor",
)

// AmendTableOrderCommand replaces the table number and the whole item list of a
// PENDING table order. Items are never edited one by one: the waiter resubmits
// the complete set.
type AmendTableOrderCommand struct { //nolint:recvcheck //using for validation
	session     session.Session
	orderID     kernel.ID
	tableNumber int
	items       []OrderItem

	guard guard.ConstructorGuard
}

func NewAmendTableOrderCommand(
	sess session.Session,
	orderID kernel.ID,
	tableNumber int,
	items []OrderItem,
) (AmendTableOrderCommand, error) {
	command := AmendTableOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSession(sess),
		command.setOrderID(orderID),
		command.setTableNumber(tableNumber),
		command.setItems(items),
	); err != nil {
		return AmendTableOrderCommand{}, err
	}

	return command, nil
}

func (c AmendTableOrderCommand) Validate() error {
	return c.guard.Validate(ErrAmendTableOrderCommandIsNotConstructed)
}

func (c AmendTableOrderCommand) Session() session.Session {
	return c.session
}

func (c AmendTableOrderCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c AmendTableOrderCommand) TableNumber() int {
	return c.tableNumber
}

func (c AmendTableOrderCommand) Items() []OrderItem {
	return slices.Clone(c.items)
}

func (c *AmendTableOrderCommand) setSession(sess session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	c.session = sess
	return nil
}

func (c *AmendTableOrderCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *AmendTableOrderCommand) setTableNumber(tableNumber int) error {
	if tableNumber <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("tableNumber", fmt.Errorf("%d is not a table", tableNumber))
	}
	c.tableNumber = tableNumber
	return nil
}

func (c *AmendTableOrderCommand) setItems(items []OrderItem) error {
	valid, err := validateItems(items)
	if err != nil {
		return err
	}
	c.items = valid
	return nil
}
