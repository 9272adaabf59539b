package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order did not come from
// RestoreOrder. Orders are always created by the backend and only rebuilt here.
var ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder")

// Party is a person attached to an order: the waiter of a table order or the
// customer of an app order.
type Party struct {
	ID   kernel.ID
	Name string
}

// Snapshot is the full state of an order in plain fields. Stores and the
// backend adapter rebuild orders from it through RestoreOrder.
type Snapshot struct {
	ID        kernel.ID
	Kind      Kind
	Status    Status
	LineItems []LineItem
	CreatedAt time.Time

	// ServerTotal is the total reported by the backend, if any.
	ServerTotal *kernel.Money

	// Table orders.
	TableNumber int
	Waiter      *Party

	// App orders.
	Customer        *Party
	DeliveryAddress string
}

// Order is a table order or an app order.
//
// Order follows these invariants:
//   - the ID is set by the backend and never changes
//   - line items only change by resubmitting a PENDING table order (see CheckAmendable)
//   - the status belongs to the kind's vocabulary and only changes through AttemptTransition
//
// Values are immutable: a transition yields a new *Order.
type Order struct {
	id        kernel.ID
	kind      Kind
	status    Status
	lineItems []LineItem
	createdAt time.Time

	serverTotal *kernel.Money

	tableNumber int
	waiter      *Party

	customer        *Party
	deliveryAddress string

	guard guard.ConstructorGuard
}

// RestoreOrder rebuilds an order in any status of its kind, e.g. from a backend
// payload or a stored snapshot. It is the only constructor: the backend assigns
// IDs and prices, so the station never invents an order on its own.
//
// Parameters:
//   - s: the full state; ID, Kind, Status, LineItems and CreatedAt are required
//
// Returns:
//   - *Order: the rebuilt order
//   - error: every invalid field joined together, e.g. a status outside the
//     kind's vocabulary or a negative table number
//
// Example:
//
//	o, err := order.RestoreOrder(order.Snapshot{
//	    ID:        kernel.MustID("7"),
//	    Kind:      order.Table,
//	    Status:    order.Ready,
//	    LineItems: items,
//	    CreatedAt: placedAt,
//	})
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(s.ID),
		o.setKindAndStatus(s.Kind, s.Status),
		o.setLineItems(s.LineItems),
		o.setCreatedAt(s.CreatedAt),
		o.setTableNumber(s.TableNumber),
	); err != nil {
		return nil, err
	}

	if s.ServerTotal != nil {
		total := *s.ServerTotal
		o.serverTotal = &total
	}
	o.waiter = cloneParty(s.Waiter)
	o.customer = cloneParty(s.Customer)
	o.deliveryAddress = s.DeliveryAddress

	return o, nil
}

// Validate ensures the order was built through RestoreOrder.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed for a nil or zero-value order
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the identifier the backend assigned.
func (o *Order) ID() kernel.ID {
	return o.id
}

// Kind returns Table or App. It never changes.
func (o *Order) Kind() Kind {
	return o.kind
}

// Status returns the last status the backend confirmed for the order.
func (o *Order) Status() Status {
	return o.status
}

// LineItems returns a copy of the items, so callers cannot alter the order.
func (o *Order) LineItems() []LineItem {
	return slices.Clone(o.lineItems)
}

// CreatedAt returns when the order was placed, in the zone the backend's
// timestamp was read in.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// TableNumber returns the table a table order belongs to.
// It is zero for app orders and for table orders the backend sent without one.
func (o *Order) TableNumber() int {
	return o.tableNumber
}

// Waiter returns a copy of the waiter who took a table order.
// Returns nil when no waiter is assigned, which is always the case for app orders.
func (o *Order) Waiter() *Party {
	return cloneParty(o.waiter)
}

// Customer returns a copy of the customer who placed an app order.
// Returns nil for table orders and for app orders without a known customer.
func (o *Order) Customer() *Party {
	return cloneParty(o.customer)
}

// DeliveryAddress returns where an app order goes. It may be empty.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// ComputedTotal is the sum of quantity × unit price over the line items.
//
// Example:
//
//	// 2 × 1500 + 1 × 900.50
//	o.ComputedTotal().String() // "3900.50"
func (o *Order) ComputedTotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.lineItems {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Total is what the customer pays. The backend's figure wins when it sent one,
// since it may include charges the items do not show; otherwise it is
// ComputedTotal.
//
// Returns:
//   - the server total if present
//   - ComputedTotal otherwise
func (o *Order) Total() kernel.Money {
	if o.serverTotal != nil {
		return *o.serverTotal
	}
	return o.ComputedTotal()
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	return IsTerminal(o.kind, o.status)
}

// IsEqual compares orders by kind and ID. A table order and an app order may
// share an ID, since the backend numbers them separately.
//
// Parameters:
//   - other: the order to compare with
//
// Returns:
//   - true if both orders have the same kind and ID
//   - false if other is nil or either differs
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.kind == other.kind && o.id.IsEqual(other.id)
}

// Snapshot exposes the order's state for persistence and transport.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:              o.id,
		Kind:            o.kind,
		Status:          o.status,
		LineItems:       o.LineItems(),
		CreatedAt:       o.createdAt,
		TableNumber:     o.tableNumber,
		Waiter:          o.Waiter(),
		Customer:        o.Customer(),
		DeliveryAddress: o.deliveryAddress,
	}
	if o.serverTotal != nil {
		total := *o.serverTotal
		s.ServerTotal = &total
	}
	return s
}

// CheckAmendable reports whether the order's items may still be resubmitted.
// Only table orders can be amended, and only while PENDING: once the kitchen
// has started, the items are what the kitchen is cooking.
//
// Returns:
//   - nil if the order may be amended
//   - *NotAmendableError otherwise
//
// Example:
//
//	if err := order.CheckAmendable(current); err != nil {
//	    return err // ErrOrderIsNotAmendable
//	}
//	amended, err := gateway.AmendTableOrder(ctx, current.ID(), draft, actor)
func CheckAmendable(o *Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.kind != Table || o.status != Pending {
		return &NotAmendableError{Kind: o.kind, Status: o.status}
	}
	return nil
}

func (o *Order) withStatus(status Status) *Order {
	next := *o
	next.lineItems = slices.Clone(o.lineItems)
	next.waiter = cloneParty(o.waiter)
	next.customer = cloneParty(o.customer)
	next.status = status
	return &next
}

func (o *Order) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setKindAndStatus(kind Kind, status Status) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if !InVocabulary(kind, status) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a %s order state", status, kind),
		)
	}
	o.kind = kind
	o.status = status
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if items == nil {
		return errs.NewValueIsRequiredError("line items")
	}
	o.lineItems = slices.Clone(items)
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}

func (o *Order) setTableNumber(tableNumber int) error {
	if tableNumber < 0 {
		return errs.NewValueIsOutOfRangeError("table number", tableNumber, 0, "unbounded")
	}
	o.tableNumber = tableNumber
	return nil
}

func cloneParty(p *Party) *Party {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
