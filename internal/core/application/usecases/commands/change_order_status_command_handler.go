package commands

import (
	"context"
	"log/slog"
	"time"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
)

// ChangeOrderStatusCommandHandler drives one status change through the state
// machine and the backend.
//
// The stored order is only replaced after the backend confirms the change, so
// a rejected or failed request leaves the board showing the last confirmed
// status. Failed requests are not retried.
type ChangeOrderStatusCommandHandler struct {
	gateway   ports.OrderGateway
	store     ports.BoardStore
	refresher ports.BoardRefresher
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewChangeOrderStatusCommandHandler(
	gateway ports.OrderGateway,
	store ports.BoardStore,
	refresher ports.BoardRefresher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		gateway:   gateway,
		store:     store,
		refresher: refresher,
		publisher: publisher,
		logger:    logger.With("component", "ChangeOrderStatusCommandHandler"),
		now:       time.Now,
	}
}

// Handle returns the order in its new, backend-confirmed status.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := loadConfirmedOrder(ctx, h.store, h.gateway, cmd.Kind(), cmd.OrderID())
	if err != nil {
		return nil, err
	}

	next, err := order.AttemptTransitionByName(current, cmd.Requested())
	if err != nil {
		return nil, err
	}

	role := cmd.Session().Role()
	if !role.CanRequest(next.Kind(), next.Status()) {
		return nil, permissionDenied(role, next.Kind(), next.Status())
	}
	if !cmd.Session().CanSee(current) {
		return nil, notOwner(current)
	}

	actor := cmd.Session().UserID()
	if err = h.gateway.UpdateStatus(ctx, next.Kind(), next.ID(), next.Status(), actor); err != nil {
		h.logger.WarnContext(ctx, "backend rejected status change",
			"kind", next.Kind().String(),
			"order_id", next.ID().String(),
			"from", current.Status().String(),
			"to", next.Status().String(),
			"error", err)
		return nil, err
	}

	commitConfirmed(ctx, h.logger, h.refresher, h.store, h.publisher, order.NewStatusChanged(current, next, actor, h.now()), next)
	return next, nil
}
