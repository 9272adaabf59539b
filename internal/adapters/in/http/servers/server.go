// Package servers holds the hand-maintained echo bindings for api/openapi.yaml:
// the wire models, the ServerInterface the HTTP adapter implements and the
// route table. Any change to the document must be mirrored here.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"comanda/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// BearerAuthScopes is the context key marking routes that need a session.
const BearerAuthScopes = "bearerAuth.Scopes"

const (
	EFECTIVO       ChargeRequestMethod = "EFECTIVO"
	TARJETACREDITO ChargeRequestMethod = "TARJETA_CREDITO"
	TRANSFERENCIA  ChargeRequestMethod = "TRANSFERENCIA"
)

const (
	APP   OrderKind = "APP"
	TABLE OrderKind = "TABLE"
)

type Board struct {
	Cards []BoardCard `json:"cards"`
	Kind  OrderKind   `json:"kind"`
	Role  string      `json:"role"`
}

type BoardCard struct {
	Actions []string `json:"actions"`
	Order   Order    `json:"order"`
}

type ChargeRequest struct {
	Method ChargeRequestMethod `json:"method"`
}

type ChargeRequestMethod string

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type LineItem struct {
	ProductId   *string `json:"productId,omitempty"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Subtotal    string  `json:"subtotal"`
	UnitPrice   string  `json:"unitPrice"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewAppOrder is the body of POST /app-orders. The customer is the caller.
type NewAppOrder struct {
	Items []NewOrderItem `json:"items"`
}

type NewOrderItem struct {
	ProductId string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// NewTableOrder is the body of POST /table-orders and PUT /table-orders/{id}.
type NewTableOrder struct {
	Items       []NewOrderItem `json:"items"`
	TableNumber int            `json:"tableNumber"`
}

type Order struct {
	BackendStatus   string     `json:"backendStatus"`
	CreatedAt       time.Time  `json:"createdAt"`
	Customer        *Party     `json:"customer,omitempty"`
	DeliveryAddress *string    `json:"deliveryAddress,omitempty"`
	Id              string     `json:"id"`
	Items           []LineItem `json:"items"`
	Kind            OrderKind  `json:"kind"`
	Status          string     `json:"status"`
	TableNumber     *int       `json:"tableNumber,omitempty"`
	Terminal        bool       `json:"terminal"`
	Total           string     `json:"total"`
	Waiter          *Party     `json:"waiter,omitempty"`
}

type OrderDetail struct {
	Actions            []string `json:"actions"`
	AllowedTransitions []string `json:"allowedTransitions"`
	Order              Order    `json:"order"`
}

type OrderKind string

type Party struct {
	Id   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

type Session struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

type User struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Kind is the {kind} path parameter.
type Kind = OrderKind

// OrderId is the {id} path parameter.
type OrderId = string

type GetBoardParams struct {
	Kind OrderKind `form:"kind" json:"kind"`
}

type (
	AmendTableOrderJSONRequestBody   = NewTableOrder
	ChangeOrderStatusJSONRequestBody = StatusChangeRequest
	ChargeOrderJSONRequestBody       = ChargeRequest
	CreateAppOrderJSONRequestBody    = NewAppOrder
	CreateSessionJSONRequestBody     = LoginRequest
	CreateTableOrderJSONRequestBody  = NewTableOrder
)

// ServerInterface has one method per operation of the document.
type ServerInterface interface {
	// POST /app-orders
	CreateAppOrder(ctx echo.Context) error
	// GET /boards/{role}
	GetBoard(ctx echo.Context, role string, params GetBoardParams) error
	// GET /openapi.json
	GetOpenAPIDocument(ctx echo.Context) error
	// GET /orders/{kind}/{id}
	GetOrder(ctx echo.Context, kind Kind, id OrderId) error
	// POST /orders/{kind}/{id}/charge
	ChargeOrder(ctx echo.Context, kind Kind, id OrderId) error
	// PUT /orders/{kind}/{id}/status
	ChangeOrderStatus(ctx echo.Context, kind Kind, id OrderId) error
	// POST /sessions
	CreateSession(ctx echo.Context) error
	// DELETE /sessions/current
	EndCurrentSession(ctx echo.Context) error
	// POST /table-orders
	CreateTableOrder(ctx echo.Context) error
	// PUT /table-orders/{id}
	AmendTableOrder(ctx echo.Context, id OrderId) error
}

// ServerInterfaceWrapper binds path and query parameters before calling the
// handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateAppOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CreateAppOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetBoard(ctx echo.Context) error {
	var role string
	if err := bindPath(ctx, "role", &role); err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	var params GetBoardParams
	err := runtime.BindQueryParameter("form", true, true, "kind", ctx.QueryParams(), &params.Kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter kind: %s", err))
	}

	return w.Handler.GetBoard(ctx, role, params)
}

func (w *ServerInterfaceWrapper) GetOpenAPIDocument(ctx echo.Context) error {
	return w.Handler.GetOpenAPIDocument(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	kind, id, err := bindOrderPath(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetOrder(ctx, kind, id)
}

func (w *ServerInterfaceWrapper) ChargeOrder(ctx echo.Context) error {
	kind, id, err := bindOrderPath(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ChargeOrder(ctx, kind, id)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	kind, id, err := bindOrderPath(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ChangeOrderStatus(ctx, kind, id)
}

func (w *ServerInterfaceWrapper) CreateSession(ctx echo.Context) error {
	return w.Handler.CreateSession(ctx)
}

func (w *ServerInterfaceWrapper) EndCurrentSession(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.EndCurrentSession(ctx)
}

func (w *ServerInterfaceWrapper) CreateTableOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CreateTableOrder(ctx)
}

func (w *ServerInterfaceWrapper) AmendTableOrder(ctx echo.Context) error {
	var id OrderId
	if err := bindPath(ctx, "id", &id); err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.AmendTableOrder(ctx, id)
}

func bindOrderPath(ctx echo.Context) (Kind, OrderId, error) {
	var kind Kind
	if err := bindPath(ctx, "kind", &kind); err != nil {
		return "", "", err
	}

	var id OrderId
	if err := bindPath(ctx, "id", &id); err != nil {
		return "", "", err
	}

	return kind, id, nil
}

func bindPath(ctx echo.Context, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every route of the document to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL is RegisterHandlers with every path prefixed by
// baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/app-orders", wrapper.CreateAppOrder)
	router.GET(baseURL+"/boards/:role", wrapper.GetBoard)
	router.GET(baseURL+"/openapi.json", wrapper.GetOpenAPIDocument)
	router.GET(baseURL+"/orders/:kind/:id", wrapper.GetOrder)
	router.POST(baseURL+"/orders/:kind/:id/charge", wrapper.ChargeOrder)
	router.PUT(baseURL+"/orders/:kind/:id/status", wrapper.ChangeOrderStatus)
	router.POST(baseURL+"/sessions", wrapper.CreateSession)
	router.DELETE(baseURL+"/sessions/current", wrapper.EndCurrentSession)
	router.POST(baseURL+"/table-orders", wrapper.CreateTableOrder)
	router.PUT(baseURL+"/table-orders/:id", wrapper.AmendTableOrder)
}

// LoadDocument parses and validates the embedded api/openapi.yaml.
func LoadDocument() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	document, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("load OpenAPI document: %w", err)
	}
	if err = document.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate OpenAPI document: %w", err)
	}
	return document, nil
}
