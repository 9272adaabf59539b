package ports

import (
	"context"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
)

// BoardStore keeps the last backend-confirmed state of every order the station
// has seen. It is a cache: it never holds a state the backend did not report or
// acknowledge.
type BoardStore interface {
	// Replace swaps every stored order of the kind for the given list, as one unit.
	Replace(ctx context.Context, kind order.Kind, orders []*order.Order) error

	// Save inserts or overwrites a single order.
	Save(ctx context.Context, o *order.Order) error

	// Get returns *errs.ObjectNotFoundError when the order is not stored.
	Get(ctx context.Context, kind order.Kind, id kernel.ID) (*order.Order, error)

	// List returns the stored orders of the kind whose status is in statuses.
	// An empty statuses list returns nothing.
	List(ctx context.Context, kind order.Kind, statuses []order.Status) ([]*order.Order, error)
}

// BoardRefresher is the background refresh of the board store. A confirmed
// command supersedes it: a refresh that was already in flight when the backend
// acknowledged the command must not overwrite the acknowledged state.
type BoardRefresher interface {
	// Supersede drops the result of any refresh of kind still in flight. It
	// returns once no refresh of kind is writing to the store.
	Supersede(kind order.Kind)
}
