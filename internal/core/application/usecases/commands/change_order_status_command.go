package commands

import (
	"errors"
	"strings"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand is a request from a signed-in user to move one order
// to another status.
//
// The requested status is kept as the name the user sent, so that a name outside
// the order's vocabulary is reported by the state machine as an unknown state.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(sess, order.Table, kernel.MustID("42"), "PREPARING")
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	session   session.Session
	kind      order.Kind
	orderID   kernel.ID
	requested string

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(
	sess session.Session,
	kind order.Kind,
	orderID kernel.ID,
	requested string,
) (ChangeOrderStatusCommand, error) {
	command := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSession(sess),
		command.setKind(kind),
		command.setOrderID(orderID),
		command.setRequested(requested),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return command, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Session() session.Session {
	return c.session
}

func (c ChangeOrderStatusCommand) Kind() order.Kind {
	return c.kind
}

func (c ChangeOrderStatusCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Requested() string {
	return c.requested
}

func (c *ChangeOrderStatusCommand) setSession(sess session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	c.session = sess
	return nil
}

func (c *ChangeOrderStatusCommand) setKind(kind order.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	c.kind = kind
	return nil
}

func (c *ChangeOrderStatusCommand) setOrderID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ChangeOrderStatusCommand) setRequested(requested string) error {
	if strings.TrimSpace(requested) == "" {
		return errs.NewValueIsRequiredError("status")
	}
	c.requested = requested
	return nil
}
