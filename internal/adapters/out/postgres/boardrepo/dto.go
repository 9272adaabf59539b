// Package boardrepo persists the board store in PostgreSQL, so that a restarted
// station comes back with the last confirmed state of every order.
package boardrepo

import (
	"slices"
	"time"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is one board order. Orders are keyed by kind and backend id, since
// table orders and app orders are numbered independently by the backend.
type OrderDTO struct {
	Kind            int    `gorm:"primaryKey;autoIncrement:false"`
	ID              string `gorm:"primaryKey;size:64"`
	Status          int    `gorm:"index"`
	CreatedAt       time.Time
	TableNumber     int
	WaiterID        string
	WaiterName      string
	CustomerID      string
	CustomerName    string
	DeliveryAddress string
	ServerTotal     decimal.NullDecimal `gorm:"type:numeric"`
	LineItems       []LineItemDTO       `gorm:"foreignKey:OrderKind,OrderID;references:Kind,ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "board_orders"
}

type LineItemDTO struct {
	ID          uint   `gorm:"primaryKey"`
	OrderKind   int    `gorm:"index:idx_line_item_order"`
	OrderID     string `gorm:"index:idx_line_item_order;size:64"`
	Position    int
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal `gorm:"type:numeric"`
}

func (LineItemDTO) TableName() string {
	return "board_order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	dto := OrderDTO{
		Kind:            int(s.Kind),
		ID:              s.ID.String(),
		Status:          int(s.Status),
		CreatedAt:       s.CreatedAt,
		TableNumber:     s.TableNumber,
		DeliveryAddress: s.DeliveryAddress,
		LineItems:       make([]LineItemDTO, 0, len(s.LineItems)),
	}
	if s.Waiter != nil {
		dto.WaiterID = s.Waiter.ID.String()
		dto.WaiterName = s.Waiter.Name
	}
	if s.Customer != nil {
		dto.CustomerID = s.Customer.ID.String()
		dto.CustomerName = s.Customer.Name
	}
	if s.ServerTotal != nil {
		dto.ServerTotal = decimal.NewNullDecimal(s.ServerTotal.Decimal())
	}

	for i, item := range s.LineItems {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			OrderKind:   dto.Kind,
			OrderID:     dto.ID,
			Position:    i,
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Decimal(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}

	rows := slices.Clone(dto.LineItems)
	slices.SortFunc(rows, func(a, b LineItemDTO) int { return a.Position - b.Position })

	items := make([]order.LineItem, 0, len(rows))
	for _, row := range rows {
		price, priceErr := kernel.NewMoney(row.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		item, itemErr := order.RestoreLineItem(optionalID(row.ProductID), row.ProductName, row.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	snapshot := order.Snapshot{
		ID:              id,
		Kind:            order.Kind(dto.Kind),
		Status:          order.Status(dto.Status),
		LineItems:       items,
		CreatedAt:       dto.CreatedAt,
		TableNumber:     dto.TableNumber,
		Waiter:          optionalParty(dto.WaiterID, dto.WaiterName),
		Customer:        optionalParty(dto.CustomerID, dto.CustomerName),
		DeliveryAddress: dto.DeliveryAddress,
	}
	if dto.ServerTotal.Valid {
		total, totalErr := kernel.NewMoney(dto.ServerTotal.Decimal)
		if totalErr != nil {
			return nil, totalErr
		}
		snapshot.ServerTotal = &total
	}

	return order.RestoreOrder(snapshot)
}

func optionalID(s string) kernel.ID {
	id, err := kernel.NewID(s)
	if err != nil {
		return kernel.ID{}
	}
	return id
}

func optionalParty(id, name string) *order.Party {
	if id == "" && name == "" {
		return nil
	}
	return &order.Party{ID: optionalID(id), Name: name}
}
