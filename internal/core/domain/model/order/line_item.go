package order

import (
	"fmt"
	"strings"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/pkg/errs"
)

// PlaceholderProductName is shown when the backend did not send a product name.
const PlaceholderProductName = "Producto"

// LineItem is one product on an order. The product name and unit price are
// snapshots taken when the order was placed.
type LineItem struct {
	productID   kernel.ID
	productName string
	quantity    int
	unitPrice   kernel.Money
}

// RestoreLineItem rebuilds an item reported by the backend. It tolerates what
// the backend may omit (product id, zero quantity) but not negative quantities.
func RestoreLineItem(productID kernel.ID, productName string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	if quantity < 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is negative", quantity),
		)
	}

	name := strings.TrimSpace(productName)
	if name == "" {
		name = PlaceholderProductName
	}

	return LineItem{
		productID:   productID,
		productName: name,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

// ProductID returns the product's backend ID. It is zero when the backend
// omitted it.
func (i LineItem) ProductID() kernel.ID {
	return i.productID
}

// ProductName returns the name at the time of ordering, or PlaceholderProductName.
func (i LineItem) ProductName() string {
	return i.productName
}

func (i LineItem) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price at the time of ordering.
func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is quantity × unit price.
func (i LineItem) Subtotal() kernel.Money {
	return i.unitPrice.Mul(i.quantity)
}
