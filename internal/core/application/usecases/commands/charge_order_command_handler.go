package commands

import (
	"context"
	"log/slog"
	"time"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
	"comanda/internal/core/ports"
)

// ChargeOrderCommandHandler records a payment. The backend marks the order as
// charged when it accepts the payment, so no separate status update is sent.
type ChargeOrderCommandHandler struct {
	gateway   ports.OrderGateway
	store     ports.BoardStore
	refresher ports.BoardRefresher
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewChargeOrderCommandHandler(
	gateway ports.OrderGateway,
	store ports.BoardStore,
	refresher ports.BoardRefresher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ChargeOrderCommandHandler {
	return ChargeOrderCommandHandler{
		gateway:   gateway,
		store:     store,
		refresher: refresher,
		publisher: publisher,
		logger:    logger.With("component", "ChargeOrderCommandHandler"),
		now:       time.Now,
	}
}

func (h ChargeOrderCommandHandler) Handle(ctx context.Context, cmd ChargeOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := loadConfirmedOrder(ctx, h.store, h.gateway, cmd.Kind(), cmd.OrderID())
	if err != nil {
		return nil, err
	}

	next, err := order.AttemptTransition(current, order.Charged)
	if err != nil {
		return nil, err
	}

	role := cmd.Session().Role()
	if !role.CanRequest(next.Kind(), order.Charged) {
		return nil, permissionDenied(role, next.Kind(), order.Charged)
	}

	p, err := payment.NewPayment(current, cmd.Method())
	if err != nil {
		return nil, err
	}

	actor := cmd.Session().UserID()
	if err = h.gateway.RecordPayment(ctx, p, actor); err != nil {
		h.logger.WarnContext(ctx, "backend rejected payment",
			"kind", current.Kind().String(),
			"order_id", current.ID().String(),
			"amount", p.Amount().String(),
			"method", p.Method().String(),
			"error", err)
		return nil, err
	}

	h.logger.InfoContext(ctx, "order charged",
		"kind", next.Kind().String(),
		"order_id", next.ID().String(),
		"amount", p.Amount().String(),
		"method", p.Method().String())

	commitConfirmed(ctx, h.logger, h.refresher, h.store, h.publisher, order.NewStatusChanged(current, next, actor, h.now()), next)
	return next, nil
}
