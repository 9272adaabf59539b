package commands

import (
	"context"
	"fmt"
	"log/slog"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
)

// AmendTableOrderCommandHandler resubmits a table order before the kitchen has
// started it.
//
// The PENDING check runs against the last confirmed status. The backend alone
// decides whether the order can still change when the kitchen moved it in the
// meantime.
type AmendTableOrderCommandHandler struct {
	gateway   ports.OrderGateway
	store     ports.BoardStore
	refresher ports.BoardRefresher
	logger    *slog.Logger
}

func NewAmendTableOrderCommandHandler(
	gateway ports.OrderGateway,
	store ports.BoardStore,
	refresher ports.BoardRefresher,
	logger *slog.Logger,
) AmendTableOrderCommandHandler {
	return AmendTableOrderCommandHandler{
		gateway:   gateway,
		store:     store,
		refresher: refresher,
		logger:    logger.With("component", "AmendTableOrderCommandHandler"),
	}
}

// Handle returns the order as the backend stored it after the amendment.
func (h AmendTableOrderCommandHandler) Handle(ctx context.Context, cmd AmendTableOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	role := cmd.Session().Role()
	if !role.CanCreateTableOrders() {
		return nil, fmt.Errorf("%w: %s cannot amend table orders", ErrActionIsNotPermitted, role)
	}

	current, err := loadConfirmedOrder(ctx, h.store, h.gateway, order.Table, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = order.CheckAmendable(current); err != nil {
		return nil, err
	}
	if !cmd.Session().CanSee(current) {
		return nil, notOwner(current)
	}

	actor := cmd.Session().UserID()
	waiter := actor
	if w := current.Waiter(); w != nil && !w.ID.IsZero() {
		waiter = w.ID
	}
	draft := ports.TableOrderDraft{
		TableNumber: cmd.TableNumber(),
		WaiterID:    waiter,
		Items:       draftItems(cmd.Items()),
	}

	amended, err := h.gateway.AmendTableOrder(ctx, current.ID(), draft, actor)
	if err != nil {
		h.logger.WarnContext(ctx, "backend rejected amendment",
			"order_id", current.ID().String(),
			"error", err)
		return nil, err
	}
	if err = expectKind(amended, order.Table); err != nil {
		return nil, err
	}

	storeConfirmed(ctx, h.logger, h.refresher, h.store, amended)

	h.logger.InfoContext(ctx, "table order amended",
		"order_id", amended.ID().String(),
		"table", amended.TableNumber(),
		"items", len(amended.LineItems()),
		"total", amended.Total().String())

	return amended, nil
}
