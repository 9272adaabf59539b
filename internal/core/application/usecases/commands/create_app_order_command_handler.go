package commands

import (
	"context"
	"fmt"
	"log/slog"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
)

// CreateAppOrderCommandHandler submits a customer's order to the backend. The
// backend prices the items; the order it returns goes on the board.
type CreateAppOrderCommandHandler struct {
	gateway   ports.OrderGateway
	store     ports.BoardStore
	refresher ports.BoardRefresher
	logger    *slog.Logger
}

func NewCreateAppOrderCommandHandler(
	gateway ports.OrderGateway,
	store ports.BoardStore,
	refresher ports.BoardRefresher,
	logger *slog.Logger,
) CreateAppOrderCommandHandler {
	return CreateAppOrderCommandHandler{
		gateway:   gateway,
		store:     store,
		refresher: refresher,
		logger:    logger.With("component", "CreateAppOrderCommandHandler"),
	}
}

func (h CreateAppOrderCommandHandler) Handle(ctx context.Context, cmd CreateAppOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	role := cmd.Session().Role()
	if !role.CanCreateAppOrders() {
		return nil, fmt.Errorf("%w: %s cannot place app orders", ErrActionIsNotPermitted, role)
	}

	customer := cmd.Session().UserID()
	draft := ports.AppOrderDraft{
		CustomerID: customer,
		Items:      draftItems(cmd.Items()),
	}

	created, err := h.gateway.CreateAppOrder(ctx, draft, customer)
	if err != nil {
		return nil, err
	}
	if err = expectKind(created, order.App); err != nil {
		return nil, err
	}

	storeConfirmed(ctx, h.logger, h.refresher, h.store, created)

	h.logger.InfoContext(ctx, "app order placed",
		"order_id", created.ID().String(),
		"customer_id", customer.String(),
		"total", created.Total().String())

	return created, nil
}
