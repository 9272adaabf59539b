package queries

import (
	"context"
	"errors"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/services"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"
)

type GetOrderQueryHandler struct {
	store    ports.BoardStore
	gateway  ports.OrderGateway
	selector services.BoardSelector
}

func NewGetOrderQueryHandler(
	store ports.BoardStore,
	gateway ports.OrderGateway,
	selector services.BoardSelector,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{store: store, gateway: gateway, selector: selector}
}

// Handle serves the stored order, asking the backend only for orders the
// station has not seen yet. An order the viewer does not own is reported as
// not found.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.store.Get(ctx, query.Kind(), query.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		o, err = h.gateway.GetOrder(ctx, query.Kind(), query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !query.Viewer().CanSee(o) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	return GetOrderQueryResponse{
		Order:              o,
		AllowedTransitions: order.AllowedTransitions(o.Kind(), o.Status()),
		Actions:            h.selector.NextActions(query.Viewer().Role(), o),
	}, nil
}
