package session

import (
	"fmt"
	"strings"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/pkg/errs"
)

// Role is the backend's user role. It decides which screen a user sees and
// which status changes that screen may request.
type Role int

const (
	UnknownRole Role = iota
	Customer
	Kitchen
	Waiter
	Cashier
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		Customer: "CLIENTE",
		Kitchen:  "COCINERO",
		Waiter:   "MESERO",
		Cashier:  "CAJERO",
		Admin:    "ADMIN",
	}
}

func getRoleAliases() map[string]Role {
	return map[string]Role{
		"CUSTOMER": Customer,
		"KITCHEN":  Kitchen,
		"COOK":     Kitchen,
		"WAITER":   Waiter,
		"CASHIER":  Cashier,
	}
}

// ParseRole accepts the backend names (MESERO) and their English equivalents (WAITER).
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for r, str := range getRoleStrings() {
		if str == name {
			return r, nil
		}
	}
	if r, ok := getRoleAliases()[name]; ok {
		return r, nil
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a role", s))
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// CanRequest reports whether the role's screen offers a change to the given
// status. The state machine still has the last word on whether the edge exists,
// and the backend re-validates everything.
//
//   - kitchen: PREPARING, READY (table), PREPARED (app)
//   - waiter: DELIVERED (table)
//   - cashier: CHARGED, CANCELLED
//   - customer: CANCELLED (app)
//   - admin: anything
func (r Role) CanRequest(kind order.Kind, target order.Status) bool {
	switch r {
	case Admin:
		return true
	case Kitchen:
		return target == order.Preparing ||
			(kind == order.Table && target == order.Ready) ||
			(kind == order.App && target == order.Prepared)
	case Waiter:
		return kind == order.Table && target == order.Delivered
	case Cashier:
		return target == order.Charged || target == order.Cancelled
	case Customer:
		return kind == order.App && target == order.Cancelled
	default:
		return false
	}
}

// CanCreateTableOrders reports whether the role takes orders at tables.
func (r Role) CanCreateTableOrders() bool {
	return r == Waiter || r == Admin
}

// CanCreateAppOrders reports whether the role places orders from the menu.
func (r Role) CanCreateAppOrders() bool {
	return r == Customer || r == Admin
}
