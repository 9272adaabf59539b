package queries

import (
	"context"

	"comanda/internal/core/domain/services"
	"comanda/internal/core/ports"
)

// GetBoardQueryHandler reads a role's board from the board store. It never calls
// the backend: the polling job keeps the store fresh.
type GetBoardQueryHandler struct {
	store    ports.BoardStore
	selector services.BoardSelector
}

func NewGetBoardQueryHandler(store ports.BoardStore, selector services.BoardSelector) GetBoardQueryHandler {
	return GetBoardQueryHandler{store: store, selector: selector}
}

// Handle returns the board newest first.
func (h GetBoardQueryHandler) Handle(ctx context.Context, query GetBoardQuery) (GetBoardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBoardQueryResponse{}, err
	}

	response := GetBoardQueryResponse{
		Role:  query.Role(),
		Kind:  query.Kind(),
		Cards: make([]BoardCard, 0),
	}

	statuses := h.selector.Statuses(query.Role(), query.Kind())
	if len(statuses) == 0 {
		return response, nil
	}

	orders, err := h.store.List(ctx, query.Kind(), statuses)
	if err != nil {
		return GetBoardQueryResponse{}, err
	}

	for _, o := range h.selector.Select(query.Role(), query.Kind(), orders) {
		if !query.Viewer().CanSee(o) {
			continue
		}
		response.Cards = append(response.Cards, BoardCard{
			Order:   o,
			Actions: h.selector.NextActions(query.Role(), o),
		})
	}

	return response, nil
}
