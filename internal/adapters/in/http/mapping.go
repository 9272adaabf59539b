package http

import (
	"comanda/internal/core/domain/model/order"
	"comanda/internal/adapters/in/http/servers"
)

func toOrder(o *order.Order) servers.Order {
	lineItems := o.LineItems()
	items := make([]servers.LineItem, 0, len(lineItems))
	for _, item := range lineItems {
		li := servers.LineItem{
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			Subtotal:    item.Subtotal().String(),
		}
		if !item.ProductID().IsZero() {
			id := item.ProductID().String()
			li.ProductId = &id
		}
		items = append(items, li)
	}

	resp := servers.Order{
		Id:            o.ID().String(),
		Kind:          servers.OrderKind(o.Kind().String()),
		Status:        o.Status().String(),
		BackendStatus: o.Status().BackendName(),
		CreatedAt:     o.CreatedAt(),
		Total:         o.Total().String(),
		Terminal:      o.IsTerminal(),
		Items:         items,
	}

	switch o.Kind() {
	case order.Table:
		tableNumber := o.TableNumber()
		resp.TableNumber = &tableNumber
		resp.Waiter = toParty(o.Waiter())
	case order.App:
		resp.Customer = toParty(o.Customer())
		if address := o.DeliveryAddress(); address != "" {
			resp.DeliveryAddress = &address
		}
	}

	return resp
}

func toParty(p *order.Party) *servers.Party {
	if p == nil {
		return nil
	}

	party := &servers.Party{}
	if !p.ID.IsZero() {
		id := p.ID.String()
		party.Id = &id
	}
	if p.Name != "" {
		name := p.Name
		party.Name = &name
	}
	return party
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}
	return names
}
