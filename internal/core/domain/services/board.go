package services

import (
	"slices"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/session"
)

// BoardSelector decides what each role's board contains. Every screen used to
// carry its own copy of these filters; they live here now, next to the state machine.
type BoardSelector struct{}

func NewBoardSelector() BoardSelector {
	return BoardSelector{}
}

// Statuses lists the statuses the role's board shows for orders of the given kind.
//
//   - kitchen: PENDING, PREPARING
//   - waiter: table orders from PENDING to READY (delivered ones drop off the board)
//   - cashier: table orders DELIVERED, app orders PREPARED
//   - customer: every status of app orders
//   - admin: every status
func (BoardSelector) Statuses(role session.Role, kind order.Kind) []order.Status {
	switch role {
	case session.Kitchen:
		return []order.Status{order.Pending, order.Preparing}
	case session.Waiter:
		if kind != order.Table {
			return nil
		}
		return []order.Status{order.Pending, order.Preparing, order.Ready}
	case session.Cashier:
		if kind == order.Table {
			return []order.Status{order.Delivered}
		}
		return []order.Status{order.Prepared}
	case session.Customer:
		if kind != order.App {
			return nil
		}
		return order.Vocabulary(kind)
	case session.Admin:
		return order.Vocabulary(kind)
	default:
		return nil
	}
}

// Select keeps the orders that belong on the board, newest first.
func (b BoardSelector) Select(role session.Role, kind order.Kind, orders []*order.Order) []*order.Order {
	statuses := b.Statuses(role, kind)

	selected := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o.Kind() == kind && slices.Contains(statuses, o.Status()) {
			selected = append(selected, o)
		}
	}

	SortNewestFirst(selected)
	return selected
}

// NextActions lists the statuses the role may request for o right now: the
// intersection of the state machine's edges and the role's permissions.
func (BoardSelector) NextActions(role session.Role, o *order.Order) []order.Status {
	actions := make([]order.Status, 0, 2)
	for _, next := range order.AllowedTransitions(o.Kind(), o.Status()) {
		if role.CanRequest(o.Kind(), next) {
			actions = append(actions, next)
		}
	}
	return actions
}

// SortNewestFirst orders by creation time descending, then by ID for a stable board.
func SortNewestFirst(orders []*order.Order) {
	slices.SortStableFunc(orders, func(a, b *order.Order) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		switch {
		case a.ID().String() < b.ID().String():
			return -1
		case a.ID().String() > b.ID().String():
			return 1
		}
		return 0
	})
}
