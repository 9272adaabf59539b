package commands

import (
	"context"

	"comanda/internal/core/ports"
)

// EndSessionCommandHandler tears a session down. Its token stops working at once.
type EndSessionCommandHandler struct {
	registry ports.SessionRegistry
}

func NewEndSessionCommandHandler(registry ports.SessionRegistry) EndSessionCommandHandler {
	return EndSessionCommandHandler{registry: registry}
}

func (h EndSessionCommandHandler) Handle(ctx context.Context, cmd EndSessionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.registry.End(ctx, cmd.SessionID())
}
