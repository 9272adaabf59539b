package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"
)

var _ ports.OrderGateway = (*Client)(nil)

const (
	tableOrdersPath = "/api/mesas-ordenes"
	appOrdersPath   = "/api/pedidos"
	paymentsPath    = "/api/pagos"
)

func resource(kind order.Kind) (string, error) {
	switch kind {
	case order.Table:
		return tableOrdersPath, nil
	case order.App:
		return appOrdersPath, nil
	default:
		return "", kind.Validate()
	}
}

// ListOrders skips payloads that cannot be normalized and logs each one.
func (c *Client) ListOrders(ctx context.Context, kind order.Kind) ([]*order.Order, error) {
	base, err := resource(kind)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err = c.execute(c.request(ctx, kernel.ID{}).SetResult(&raw), http.MethodGet, base); err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(raw))
	for i, payload := range raw {
		o, normErr := c.normalizer.Normalize(payload, kind)
		if normErr != nil {
			c.logger.WarnContext(ctx, "skipping malformed order",
				"kind", kind.String(),
				"index", i,
				"error", normErr)
			continue
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, kind order.Kind, id kernel.ID) (*order.Order, error) {
	base, err := resource(kind)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	req := c.request(ctx, kernel.ID{}).
		SetPathParam("id", id.String()).
		SetResult(&raw)
	err = c.execute(req, http.MethodGet, base+"/{id}")
	if IsNotFound(err) {
		return nil, errs.NewObjectNotFoundErrorWithCause("order", id.String(), err)
	}
	if err != nil {
		return nil, err
	}

	return c.normalizer.Normalize(raw, kind)
}

type statusUpdateRequest struct {
	Estado string `json:"estado"`
}

// UpdateStatus sends the backend's name for the status.
func (c *Client) UpdateStatus(
	ctx context.Context,
	kind order.Kind,
	id kernel.ID,
	status order.Status,
	actor kernel.ID,
) error {
	base, err := resource(kind)
	if err != nil {
		return err
	}
	if err = status.Validate(); err != nil {
		return err
	}

	req := c.request(ctx, actor).
		SetPathParam("id", id.String()).
		SetBody(statusUpdateRequest{Estado: status.BackendName()})
	err = c.execute(req, http.MethodPut, base+"/{id}/estado")
	if IsNotFound(err) {
		return errs.NewObjectNotFoundErrorWithCause("order", id.String(), err)
	}
	return err
}

type orderRef struct {
	ID any `json:"id"`
}

type paymentRequest struct {
	Monto      string    `json:"monto"`
	MetodoPago string    `json:"metodoPago"`
	Pedido     *orderRef `json:"pedido,omitempty"`
	MesaOrden  *orderRef `json:"mesaOrden,omitempty"`
}

// RecordPayment posts the payment; the backend marks the order as charged.
func (c *Client) RecordPayment(ctx context.Context, p payment.Payment, actor kernel.ID) error {
	if err := p.Validate(); err != nil {
		return err
	}

	body := paymentRequest{
		Monto:      p.Amount().Decimal().StringFixed(2),
		MetodoPago: p.Method().String(),
	}
	ref := &orderRef{ID: idValue(p.OrderID())}
	switch p.OrderKind() {
	case order.Table:
		body.MesaOrden = ref
	case order.App:
		body.Pedido = ref
	default:
		return p.OrderKind().Validate()
	}

	err := c.execute(c.request(ctx, actor).SetBody(body), http.MethodPost, paymentsPath)
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.StatusCode == http.StatusBadRequest {
		return errs.NewValueIsInvalidErrorWithCause("payment", err)
	}
	return err
}

type orderDetail struct {
	ProductoID any `json:"productoId"`
	Cantidad   int `json:"cantidad"`
}

type tableOrderRequest struct {
	NumeroMesa int           `json:"numeroMesa"`
	MeseroID   any           `json:"meseroId"`
	Detalles   []orderDetail `json:"detalles"`
}

type appOrderRequest struct {
	UsuarioID      any           `json:"usuarioId"`
	Estado         string        `json:"estado"`
	DetallesPedido []orderDetail `json:"detallesPedido"`
}

func details(items []ports.DraftItem) []orderDetail {
	out := make([]orderDetail, 0, len(items))
	for _, item := range items {
		out = append(out, orderDetail{
			ProductoID: idValue(item.ProductID),
			Cantidad:   item.Quantity,
		})
	}
	return out
}

func tableOrderBody(draft ports.TableOrderDraft) (tableOrderRequest, error) {
	if len(draft.Items) == 0 {
		return tableOrderRequest{}, errs.NewValueIsRequiredError("items")
	}
	return tableOrderRequest{
		NumeroMesa: draft.TableNumber,
		MeseroID:   idValue(draft.WaiterID),
		Detalles:   details(draft.Items),
	}, nil
}

func (c *Client) CreateTableOrder(ctx context.Context, draft ports.TableOrderDraft, actor kernel.ID) (*order.Order, error) {
	body, err := tableOrderBody(draft)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	req := c.request(ctx, actor).SetBody(body).SetResult(&raw)
	if err = c.execute(req, http.MethodPost, tableOrdersPath); err != nil {
		return nil, err
	}

	created, err := c.normalizer.Normalize(raw, order.Table)
	if err != nil {
		return nil, fmt.Errorf("created order: %w", err)
	}
	return created, nil
}

// AmendTableOrder resubmits the whole order. The backend drops the old items
// and prices the new ones itself.
func (c *Client) AmendTableOrder(
	ctx context.Context,
	id kernel.ID,
	draft ports.TableOrderDraft,
	actor kernel.ID,
) (*order.Order, error) {
	body, err := tableOrderBody(draft)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	req := c.request(ctx, actor).
		SetPathParam("id", id.String()).
		SetBody(body).
		SetResult(&raw)
	err = c.execute(req, http.MethodPut, tableOrdersPath+"/{id}")
	if IsNotFound(err) {
		return nil, errs.NewObjectNotFoundErrorWithCause("order", id.String(), err)
	}
	if err != nil {
		return nil, err
	}

	amended, err := c.normalizer.Normalize(raw, order.Table)
	if err != nil {
		return nil, fmt.Errorf("amended order: %w", err)
	}
	return amended, nil
}

// CreateAppOrder places a customer's order. New app orders always start PENDIENTE.
func (c *Client) CreateAppOrder(ctx context.Context, draft ports.AppOrderDraft, actor kernel.ID) (*order.Order, error) {
	if len(draft.Items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	body := appOrderRequest{
		UsuarioID:      idValue(draft.CustomerID),
		Estado:         order.Pending.BackendName(),
		DetallesPedido: details(draft.Items),
	}

	var raw json.RawMessage
	req := c.request(ctx, actor).SetBody(body).SetResult(&raw)
	if err := c.execute(req, http.MethodPost, appOrdersPath); err != nil {
		return nil, err
	}

	created, err := c.normalizer.Normalize(raw, order.App)
	if err != nil {
		return nil, fmt.Errorf("created order: %w", err)
	}
	return created, nil
}
