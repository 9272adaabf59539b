// Package queries contains the read operations behind the role screens.
package queries

import (
	"errors"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/guard"
)

var ErrGetBoardQueryIsNotConstructed = errors.New(
	"GetBoardQuery must be created via NewGetBoardQuery constructor",
)

// GetBoardQuery asks for the orders one role works on, for one order kind, as
// seen by the viewer. Customers and waiters only get the orders that are
// theirs; admins get the whole board of any role.
//
// Example:
//
//	query, err := NewGetBoardQuery(sess, session.Kitchen, order.Table)
//	if err != nil {
//	    return err
//	}
//	board, err := handler.Handle(ctx, query)
//	for _, card := range board.Cards {
//	    fmt.Println(card.Order.ID(), card.Order.Status(), card.Actions)
//	}
type GetBoardQuery struct {
	viewer session.Session
	role   session.Role
	kind   order.Kind

	guard guard.ConstructorGuard
}

func NewGetBoardQuery(viewer session.Session, role session.Role, kind order.Kind) (GetBoardQuery, error) {
	if err := errors.Join(viewer.Validate(), role.Validate(), kind.Validate()); err != nil {
		return GetBoardQuery{}, err
	}

	return GetBoardQuery{
		viewer: viewer,
		role:   role,
		kind:   kind,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetBoardQueryIsNotConstructed)
}

func (q GetBoardQuery) Viewer() session.Session {
	return q.viewer
}

func (q GetBoardQuery) Role() session.Role {
	return q.role
}

func (q GetBoardQuery) Kind() order.Kind {
	return q.kind
}

// BoardCard is one order on a board together with the buttons the role gets for it.
type BoardCard struct {
	Order   *order.Order
	Actions []order.Status
}

type GetBoardQueryResponse struct {
	Role  session.Role
	Kind  order.Kind
	Cards []BoardCard
}
