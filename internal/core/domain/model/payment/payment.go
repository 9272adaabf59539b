// Package payment models a charge recorded by the cashier against an order.
// Payment processing itself happens outside this system; the backend only
// records the amount and the method.
package payment

import (
	"errors"
	"fmt"
	"strings"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment")

// Method is how the customer paid.
type Method int

const (
	UnknownMethod Method = iota
	Cash
	CreditCard
	Transfer
)

func getMethodStrings() map[Method]string {
	return map[Method]string{
		Cash:       "EFECTIVO",
		CreditCard: "TARJETA_CREDITO",
		Transfer:   "TRANSFERENCIA",
	}
}

// ParseMethod accepts the backend names, case-insensitively.
func ParseMethod(s string) (Method, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for m, str := range getMethodStrings() {
		if str == name {
			return m, nil
		}
	}
	return UnknownMethod, errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", s))
}

// String returns the backend name.
func (m Method) String() string {
	if s, ok := getMethodStrings()[m]; ok {
		return s
	}
	return "UNKNOWN"
}

func (m Method) Validate() error {
	if _, ok := getMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%d is not a valid method", m))
	}
	return nil
}

// Payment is a charge for the full total of one order.
type Payment struct {
	orderKind order.Kind
	orderID   kernel.ID
	amount    kernel.Money
	method    Method

	guard guard.ConstructorGuard
}

// NewPayment charges o's total. The backend refuses non-positive amounts, so
// they are rejected here first.
func NewPayment(o *order.Order, method Method) (Payment, error) {
	if err := o.Validate(); err != nil {
		return Payment{}, err
	}
	if err := method.Validate(); err != nil {
		return Payment{}, err
	}

	amount := o.Total()
	if !amount.IsPositive() {
		return Payment{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("order %s totals %s", o.ID(), amount),
		)
	}

	return Payment{
		orderKind: o.Kind(),
		orderID:   o.ID(),
		amount:    amount,
		method:    method,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (p Payment) Validate() error {
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p Payment) OrderKind() order.Kind {
	return p.orderKind
}

func (p Payment) OrderID() kernel.ID {
	return p.orderID
}

func (p Payment) Amount() kernel.Money {
	return p.amount
}

func (p Payment) Method() Method {
	return p.method
}
