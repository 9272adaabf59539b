// Package memory holds process-local implementations of the stores. They are
// the default when no database is configured.
package memory

import (
	"context"
	"slices"
	"sync"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"
)

var _ ports.BoardStore = (*BoardStore)(nil)

type boardKey struct {
	kind order.Kind
	id   string
}

// BoardStore keeps orders in a map. Orders are immutable values, so they are
// shared with callers without copying.
type BoardStore struct {
	mu     sync.RWMutex
	orders map[boardKey]*order.Order
}

func NewBoardStore() *BoardStore {
	return &BoardStore{orders: make(map[boardKey]*order.Order)}
}

func (s *BoardStore) Replace(_ context.Context, kind order.Kind, orders []*order.Order) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
		if o.Kind() != kind {
			return errs.NewValueIsInvalidError("order kind")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.orders {
		if key.kind == kind {
			delete(s.orders, key)
		}
	}
	for _, o := range orders {
		s.orders[boardKey{kind: kind, id: o.ID().String()}] = o
	}
	return nil
}

func (s *BoardStore) Save(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[boardKey{kind: o.Kind(), id: o.ID().String()}] = o
	return nil
}

func (s *BoardStore) Get(_ context.Context, kind order.Kind, id kernel.ID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[boardKey{kind: kind, id: id.String()}]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (s *BoardStore) List(_ context.Context, kind order.Kind, statuses []order.Status) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*order.Order, 0)
	for key, o := range s.orders {
		if key.kind == kind && slices.Contains(statuses, o.Status()) {
			result = append(result, o)
		}
	}
	return result, nil
}
