package queries

import (
	"errors"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery asks for the detail of one order as seen by the viewer.
type GetOrderQuery struct {
	viewer  session.Session
	kind    order.Kind
	orderID kernel.ID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(viewer session.Session, kind order.Kind, orderID kernel.ID) (GetOrderQuery, error) {
	if err := errors.Join(viewer.Validate(), kind.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		viewer:  viewer,
		kind:    kind,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Viewer() session.Session {
	return q.viewer
}

func (q GetOrderQuery) Kind() order.Kind {
	return q.kind
}

func (q GetOrderQuery) OrderID() kernel.ID {
	return q.orderID
}

// GetOrderQueryResponse carries every edge out of the order's status, and the
// subset the asking role may request.
type GetOrderQueryResponse struct {
	Order              *order.Order
	AllowedTransitions []order.Status
	Actions            []order.Status
}
