package commands

import (
	"context"
	"fmt"
	"log/slog"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
)

// CreateTableOrderCommandHandler submits a waiter's order to the backend and
// puts the order the backend created on the board.
type CreateTableOrderCommandHandler struct {
	gateway   ports.OrderGateway
	store     ports.BoardStore
	refresher ports.BoardRefresher
	logger    *slog.Logger
}

func NewCreateTableOrderCommandHandler(
	gateway ports.OrderGateway,
	store ports.BoardStore,
	refresher ports.BoardRefresher,
	logger *slog.Logger,
) CreateTableOrderCommandHandler {
	return CreateTableOrderCommandHandler{
		gateway:   gateway,
		store:     store,
		refresher: refresher,
		logger:    logger.With("component", "CreateTableOrderCommandHandler"),
	}
}

func (h CreateTableOrderCommandHandler) Handle(ctx context.Context, cmd CreateTableOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	role := cmd.Session().Role()
	if !role.CanCreateTableOrders() {
		return nil, fmt.Errorf("%w: %s cannot open table orders", ErrActionIsNotPermitted, role)
	}

	waiter := cmd.Session().UserID()
	draft := ports.TableOrderDraft{
		TableNumber: cmd.TableNumber(),
		WaiterID:    waiter,
		Items:       draftItems(cmd.Items()),
	}

	created, err := h.gateway.CreateTableOrder(ctx, draft, waiter)
	if err != nil {
		return nil, err
	}
	if err = expectKind(created, order.Table); err != nil {
		return nil, err
	}

	storeConfirmed(ctx, h.logger, h.refresher, h.store, created)

	h.logger.InfoContext(ctx, "table order created",
		"order_id", created.ID().String(),
		"table", created.TableNumber(),
		"waiter_id", waiter.String(),
		"status", created.Status().String())

	return created, nil
}

