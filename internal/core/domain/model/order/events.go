package order

import (
	"time"

	"comanda/internal/core/domain/model/kernel"
)

// StatusChanged records a transition the backend has confirmed.
type StatusChanged struct {
	EventID    kernel.UUID
	Kind       Kind
	OrderID    kernel.ID
	From       Status
	To         Status
	ActorID    kernel.ID
	OccurredAt time.Time
}

// NewStatusChanged describes the move from prev to next.
func NewStatusChanged(prev, next *Order, actor kernel.ID, at time.Time) StatusChanged {
	return StatusChanged{
		EventID:    kernel.NewUUID(),
		Kind:       next.Kind(),
		OrderID:    next.ID(),
		From:       prev.Status(),
		To:         next.Status(),
		ActorID:    actor,
		OccurredAt: at,
	}
}
