package ports

import (
	"context"

	"comanda/internal/core/domain/model/order"
)

// EventPublisher tells other stations that a transition was confirmed by the backend.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event order.StatusChanged) error
}
