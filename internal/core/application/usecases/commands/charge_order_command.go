package commands

import (
	"errors"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/guard"
)

var ErrChargeOrderCommandIsNotConstructed = errors.New(
	"ChargeOrderCommand must be created via NewChargeOrderCommand constructor",
)

// ChargeOrderCommand is the cashier recording that an order was paid in full.
type ChargeOrderCommand struct { //nolint:recvcheck //using for validation
	session session.Session
	kind    order.Kind
	orderID kernel.ID
	method  payment.Method

	guard guard.ConstructorGuard
}

func NewChargeOrderCommand(
	sess session.Session,
	kind order.Kind,
	orderID kernel.ID,
	method payment.Method,
) (ChargeOrderCommand, error) {
	command := ChargeOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		sess.Validate(),
		kind.Validate(),
		orderID.Validate(),
		method.Validate(),
	); err != nil {
		return ChargeOrderCommand{}, err
	}

	command.session = sess
	command.kind = kind
	command.orderID = orderID
	command.method = method
	return command, nil
}

func (c ChargeOrderCommand) Validate() error {
	return c.guard.Validate(ErrChargeOrderCommandIsNotConstructed)
}

func (c ChargeOrderCommand) Session() session.Session {
	return c.session
}

func (c ChargeOrderCommand) Kind() order.Kind {
	return c.kind
}

func (c ChargeOrderCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c ChargeOrderCommand) Method() payment.Method {
	return c.method
}
