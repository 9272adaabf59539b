// Package ports defines the contracts between the use cases and the outside
// world: the restaurant backend, the local board store, the event broker and
// the session registry.
package ports

import (
	"context"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
)

// DraftItem is one product on a table order that has not been submitted yet.
type DraftItem struct {
	ProductID kernel.ID
	Quantity  int
}

// TableOrderDraft is what a waiter submits to open a table order, or to
// resubmit the whole item list of a PENDING one.
type TableOrderDraft struct {
	TableNumber int
	WaiterID    kernel.ID
	Items       []DraftItem
}

// AppOrderDraft is what a customer submits from the menu.
type AppOrderDraft struct {
	CustomerID kernel.ID
	Items      []DraftItem
}

// OrderGateway is the restaurant backend, the only source of truth for orders.
// Every mutation is confirmed or rejected by it; nothing is retried automatically.
//
// actor is the signed-in user on whose behalf the call is made. It may be zero
// for background reads.
type OrderGateway interface {
	// ListOrders returns the backend's orders of one kind, normalized.
	// Payloads that cannot be normalized are skipped.
	ListOrders(ctx context.Context, kind order.Kind) ([]*order.Order, error)

	// GetOrder fetches a single order. A missing order yields *errs.ObjectNotFoundError.
	GetOrder(ctx context.Context, kind order.Kind, id kernel.ID) (*order.Order, error)

	// UpdateStatus asks the backend to move the order to status.
	UpdateStatus(ctx context.Context, kind order.Kind, id kernel.ID, status order.Status, actor kernel.ID) error

	// RecordPayment registers a charge; the backend marks the order as charged.
	RecordPayment(ctx context.Context, p payment.Payment, actor kernel.ID) error

	// CreateTableOrder submits a new table order and returns it as the backend stored it.
	CreateTableOrder(ctx context.Context, draft TableOrderDraft, actor kernel.ID) (*order.Order, error)

	// AmendTableOrder replaces the table number and every item of an existing
	// table order and returns it as the backend stored it.
	AmendTableOrder(ctx context.Context, id kernel.ID, draft TableOrderDraft, actor kernel.ID) (*order.Order, error)

	// CreateAppOrder submits a customer's order and returns it as the backend stored it.
	CreateAppOrder(ctx context.Context, draft AppOrderDraft, actor kernel.ID) (*order.Order, error)
}
