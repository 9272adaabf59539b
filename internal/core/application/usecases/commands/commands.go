// Package commands contains the operations that change an order's lifecycle or a
// user's session. Every order mutation is first checked by the state machine,
// then confirmed by the backend, and only then committed to the board store.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"
)

var ErrActionIsNotPermitted = errors.New("action is not permitted")

func permissionDenied(role session.Role, kind order.Kind, target order.Status) error {
	return fmt.Errorf("%w: %s cannot move %s orders to %s", ErrActionIsNotPermitted, role, kind, target)
}

// loadConfirmedOrder returns the last state the backend confirmed for the order.
// Orders the station has not seen yet are fetched and remembered.
func loadConfirmedOrder(
	ctx context.Context,
	store ports.BoardStore,
	gateway ports.OrderGateway,
	kind order.Kind,
	id kernel.ID,
) (*order.Order, error) {
	current, err := store.Get(ctx, kind, id)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	current, err = gateway.GetOrder(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err = store.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// storeConfirmed puts an order the backend just returned on the board. Refreshes
// that were in flight before the backend answered are superseded first, so
// their older view cannot land on top of it. The write is detached from ctx:
// the backend already holds the new state, and a client hanging up must not
// leave the board behind it.
func storeConfirmed(
	ctx context.Context,
	logger *slog.Logger,
	refresher ports.BoardRefresher,
	store ports.BoardStore,
	o *order.Order,
) {
	ctx = context.WithoutCancel(ctx)

	refresher.Supersede(o.Kind())
	if err := store.Save(ctx, o); err != nil {
		logger.WarnContext(ctx, "failed to store confirmed order",
			"kind", o.Kind().String(),
			"order_id", o.ID().String(),
			"error", err)
	}
}

// commitConfirmed records a transition the backend already accepted. Neither a
// store nor a broker failure can undo it, so both are only logged: the next
// poll repairs the store.
func commitConfirmed(
	ctx context.Context,
	logger *slog.Logger,
	refresher ports.BoardRefresher,
	store ports.BoardStore,
	publisher ports.EventPublisher,
	event order.StatusChanged,
	next *order.Order,
) {
	ctx = context.WithoutCancel(ctx)

	storeConfirmed(ctx, logger, refresher, store, next)

	if err := publisher.PublishStatusChanged(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish status change",
			"event_id", event.EventID.String(),
			"order_id", event.OrderID.String(),
			"error", err)
	}
}

// OrderItem is one product line a user puts on an order.
type OrderItem struct {
	ProductID kernel.ID
	Quantity  int
}

func validateItems(items []OrderItem) ([]OrderItem, error) {
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].productId", i), err)
		}
		if item.Quantity <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i),
				fmt.Errorf("%d is not positive", item.Quantity),
			)
		}
	}

	return slices.Clone(items), nil
}

func draftItems(items []OrderItem) []ports.DraftItem {
	out := make([]ports.DraftItem, 0, len(items))
	for _, item := range items {
		out = append(out, ports.DraftItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func notOwner(o *order.Order) error {
	return fmt.Errorf("%w: %s order %s belongs to another user", ErrActionIsNotPermitted, o.Kind(), o.ID())
}

func expectKind(created *order.Order, kind order.Kind) error {
	if created.Kind() != kind {
		return errs.NewValueIsInvalidErrorWithCause(
			"backend order",
			fmt.Errorf("backend returned a %s order, expected %s", created.Kind(), kind),
		)
	}
	return nil
}
