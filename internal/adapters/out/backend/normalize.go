package backend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Backend field names differ between endpoints and between versions of the
// backend. Each list is tried in order and the first non-empty value wins.
// Keys are gjson paths, so producto.nombre reads a nested object.
var (
	idKeys          = []string{"id", "pedidoId", "mesaOrdenId"}
	lineItemKeys    = []string{"detalles", "productos", "items"}
	productIDKeys   = []string{"producto.id", "productoId", "productId", "id"}
	productNameKeys = []string{"producto.nombre", "nombreProducto", "nombre", "name"}
	quantityKeys    = []string{"cantidad", "quantity"}
	unitPriceKeys   = []string{"precioUnitario", "precio", "price", "producto.precio"}
	createdAtKeys   = []string{"fechaPedido", "fecha_pedido", "fechaCreacion", "fecha"}
	statusKeys      = []string{"estado"}
	totalKeys       = []string{"total", "precioTotal"}
	tableKeys       = []string{"numeroMesa", "mesa"}
	waiterIDKeys    = []string{"mesero.id", "meseroId"}
	waiterNameKeys  = []string{"mesero.nombre", "meseroNombre"}
	customerIDKeys  = []string{"usuario.id", "usuarioId"}
	customerKeys    = []string{"usuarioNombre", "usuario.nombre", "cliente"}
	addressKeys     = []string{"direccionEntrega"}
)

// The backend serializes LocalDateTime without a zone.
var localTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer turns backend order payloads into orders. It is the only place
// that knows the backend's field names.
//
// Payloads without a timestamp get the normalizer's reference time, so the same
// payload always yields the same order.
type Normalizer struct {
	reference time.Time
	location  *time.Location
}

// NewNormalizer interprets zone-less backend timestamps in loc.
func NewNormalizer(reference time.Time, loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return Normalizer{reference: reference, location: loc}
}

// Normalize builds an order of the given kind from one payload.
//
// Missing optional fields fall back to defaults (zero quantity and price, the
// placeholder product name, the reference time, PENDING). A payload without an
// id or without a line-item list fails with ErrMalformedOrder, as does a status
// outside the kind's vocabulary.
func (n Normalizer) Normalize(raw json.RawMessage, kind order.Kind) (*order.Order, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	payload, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	id, ok := stringAt(payload, idKeys...)
	if !ok {
		return nil, malformed("missing id", nil)
	}

	rawItems, ok := lookup(payload, lineItemKeys...)
	if !ok {
		return nil, malformed("missing line items", nil)
	}
	if !rawItems.IsArray() {
		return nil, malformed("line items are not a list", nil)
	}

	itemList := rawItems.Array()
	items := make([]order.LineItem, 0, len(itemList))
	for i, rawItem := range itemList {
		item, itemErr := n.lineItem(rawItem)
		if itemErr != nil {
			return nil, malformed(fmt.Sprintf("line item %d", i), itemErr)
		}
		items = append(items, item)
	}

	status := order.Pending
	if name, found := stringAt(payload, statusKeys...); found {
		status = order.ParseStatus(name)
		if !order.InVocabulary(kind, status) {
			return nil, malformed(fmt.Sprintf("status %q is not a %s status", name, kind), nil)
		}
	}

	snapshot := order.Snapshot{
		ID:        kernel.MustID(id),
		Kind:      kind,
		Status:    status,
		LineItems: items,
		CreatedAt: n.createdAt(payload),
	}

	if total, found := moneyAt(payload, totalKeys...); found {
		snapshot.ServerTotal = &total
	}

	switch kind {
	case order.Table:
		if table, found := intAt(payload, tableKeys...); found && table > 0 {
			snapshot.TableNumber = table
		}
		snapshot.Waiter = party(payload, waiterIDKeys, waiterNameKeys)
	case order.App:
		snapshot.Customer = party(payload, customerIDKeys, customerKeys)
		snapshot.DeliveryAddress, _ = stringAt(payload, addressKeys...)
	}

	o, err := order.RestoreOrder(snapshot)
	if err != nil {
		return nil, malformed("invalid order", err)
	}
	return o, nil
}

func (n Normalizer) lineItem(raw gjson.Result) (order.LineItem, error) {
	if !raw.IsObject() {
		return order.LineItem{}, fmt.Errorf("expected an object, got %s", raw.Type)
	}

	var productID kernel.ID
	if id, found := stringAt(raw, productIDKeys...); found {
		productID = kernel.MustID(id)
	}
	name, _ := stringAt(raw, productNameKeys...)

	quantity, _ := intAt(raw, quantityKeys...)
	if quantity < 0 {
		quantity = 0
	}

	price, found := moneyAt(raw, unitPriceKeys...)
	if !found {
		price = kernel.ZeroMoney()
	}

	return order.RestoreLineItem(productID, name, quantity, price)
}

func (n Normalizer) createdAt(payload gjson.Result) time.Time {
	v, ok := lookup(payload, createdAtKeys...)
	if !ok {
		return n.reference
	}

	switch {
	case v.Type == gjson.String:
		s := strings.TrimSpace(v.Str)
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return parsed
		}
		for _, layout := range localTimeLayouts {
			if parsed, err := time.ParseInLocation(layout, s, n.location); err == nil {
				return parsed
			}
		}
	case v.IsArray():
		// [year, month, day, hour, minute, second, nanos] as written by Jackson
		// when dates are serialized as arrays.
		values := v.Array()
		parts := make([]int, 7)
		for i := 0; i < len(values) && i < len(parts); i++ {
			parts[i], _ = toInt(values[i])
		}
		if len(values) >= 3 && parts[0] > 0 {
			return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], n.location)
		}
	}

	return n.reference
}

func party(payload gjson.Result, idKeys, nameKeys []string) *order.Party {
	id, hasID := stringAt(payload, idKeys...)
	name, hasName := stringAt(payload, nameKeys...)
	if !hasID && !hasName {
		return nil
	}

	p := &order.Party{Name: name}
	if hasID {
		p.ID = kernel.MustID(id)
	}
	return p
}

func decodeObject(raw json.RawMessage) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, malformed("not json", nil)
	}

	v := gjson.ParseBytes(raw)
	if !v.IsObject() {
		return gjson.Result{}, malformed(fmt.Sprintf("expected an object, got %s", v.Type), nil)
	}
	return v, nil
}

// lookup returns the first key holding a non-empty value.
func lookup(v gjson.Result, keys ...string) (gjson.Result, bool) {
	for _, key := range keys {
		if found := v.Get(key); !isEmpty(found) {
			return found, true
		}
	}
	return gjson.Result{}, false
}

func isEmpty(v gjson.Result) bool {
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return true
	case v.Type == gjson.String:
		return strings.TrimSpace(v.Str) == ""
	}
	return false
}

// scalar renders strings trimmed and numbers exactly as the backend wrote them.
func scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str), true
	case gjson.Number:
		return v.Raw, true
	default:
		return "", false
	}
}

func stringAt(v gjson.Result, keys ...string) (string, bool) {
	for _, key := range keys {
		found, ok := lookup(v, key)
		if !ok {
			continue
		}
		if s, isScalar := scalar(found); isScalar {
			return s, true
		}
	}
	return "", false
}

func intAt(v gjson.Result, keys ...string) (int, bool) {
	for _, key := range keys {
		found, ok := lookup(v, key)
		if !ok {
			continue
		}
		if n, isInt := toInt(found); isInt {
			return n, true
		}
	}
	return 0, false
}

func toInt(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), true
	case gjson.String:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func moneyAt(v gjson.Result, keys ...string) (kernel.Money, bool) {
	for _, key := range keys {
		found, ok := lookup(v, key)
		if !ok {
			continue
		}
		s, isScalar := scalar(found)
		if !isScalar {
			continue
		}

		amount, err := decimal.NewFromString(s)
		if err != nil {
			continue
		}
		money, err := kernel.NewMoney(amount)
		if err != nil {
			continue
		}
		return money, true
	}
	return kernel.Money{}, false
}
