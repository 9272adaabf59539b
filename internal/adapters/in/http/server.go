package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"comanda/internal/core/application/usecases/commands"
	"comanda/internal/core/application/usecases/queries"
	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/adapters/in/http/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for the role screens.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	startSessionHandler      commands.StartSessionCommandHandler
	endSessionHandler        commands.EndSessionCommandHandler
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler
	chargeOrderHandler       commands.ChargeOrderCommandHandler
	createTableOrderHandler  commands.CreateTableOrderCommandHandler
	amendTableOrderHandler   commands.AmendTableOrderCommandHandler
	createAppOrderHandler    commands.CreateAppOrderCommandHandler

	// Query handlers
	getBoardHandler queries.GetBoardQueryHandler
	getOrderHandler queries.GetOrderQueryHandler

	tokens   *TokenIssuer
	document func() (*openapi3.T, error)
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	startSessionHandler commands.StartSessionCommandHandler,
	endSessionHandler commands.EndSessionCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	chargeOrderHandler commands.ChargeOrderCommandHandler,
	createTableOrderHandler commands.CreateTableOrderCommandHandler,
	amendTableOrderHandler commands.AmendTableOrderCommandHandler,
	createAppOrderHandler commands.CreateAppOrderCommandHandler,
	getBoardHandler queries.GetBoardQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	tokens *TokenIssuer,
	logger *slog.Logger,
) *Server {
	return &Server{
		startSessionHandler:      startSessionHandler,
		endSessionHandler:        endSessionHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		chargeOrderHandler:       chargeOrderHandler,
		createTableOrderHandler:  createTableOrderHandler,
		amendTableOrderHandler:   amendTableOrderHandler,
		createAppOrderHandler:    createAppOrderHandler,
		getBoardHandler:          getBoardHandler,
		getOrderHandler:          getOrderHandler,
		tokens:                   tokens,
		document:                 sync.OnceValues(servers.LoadDocument),
		logger:                   logger.With("component", "http_server"),
	}
}

// CreateSession handles POST /api/v1/sessions - signs a user in.
func (s *Server) CreateSession(ctx echo.Context) error {
	var body servers.LoginRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewStartSessionCommand(body.Email, body.Password)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	sess, err := s.startSessionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.Session{
		Token:     token,
		ExpiresAt: sess.ExpiresAt(),
		User: servers.User{
			Id:   sess.UserID().String(),
			Name: sess.UserName(),
			Role: sess.Role().String(),
		},
	})
}

// EndCurrentSession handles DELETE /api/v1/sessions/current - signs the user out.
func (s *Server) EndCurrentSession(ctx echo.Context) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	cmd, err := commands.NewEndSessionCommand(sess.ID())
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.endSessionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetBoard handles GET /api/v1/boards/{role} - the orders one role works on.
// Only admins may look at another role's board.
func (s *Server) GetBoard(ctx echo.Context, role string, params servers.GetBoardParams) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	boardRole, err := session.ParseRole(role)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if boardRole != sess.Role() && sess.Role() != session.Admin {
		return writeError(ctx, http.StatusForbidden,
			fmt.Sprintf("a %s session cannot open the %s board", sess.Role(), boardRole))
	}

	kind, err := order.ParseKind(string(params.Kind))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetBoardQuery(sess, boardRole, kind)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	board, err := s.getBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	cards := make([]servers.BoardCard, len(board.Cards))
	for i, card := range board.Cards {
		cards[i] = servers.BoardCard{
			Order:   toOrder(card.Order),
			Actions: statusNames(card.Actions),
		}
	}

	return ctx.JSON(http.StatusOK, servers.Board{
		Role:  board.Role.String(),
		Kind:  servers.OrderKind(board.Kind.String()),
		Cards: cards,
	})
}

// GetOrder handles GET /api/v1/orders/{kind}/{id}.
func (s *Server) GetOrder(ctx echo.Context, kind servers.Kind, id servers.OrderId) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	orderKind, orderID, err := parseOrderPath(kind, id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetOrderQuery(sess, orderKind, orderID)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.OrderDetail{
		Order:              toOrder(detail.Order),
		AllowedTransitions: statusNames(detail.AllowedTransitions),
		Actions:            statusNames(detail.Actions),
	})
}

// ChangeOrderStatus handles PUT /api/v1/orders/{kind}/{id}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context, kind servers.Kind, id servers.OrderId) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	orderKind, orderID, err := parseOrderPath(kind, id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	var body servers.ChangeOrderStatusJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(sess, orderKind, orderID, body.Status)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	updated, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(updated))
}

// ChargeOrder handles POST /api/v1/orders/{kind}/{id}/charge.
func (s *Server) ChargeOrder(ctx echo.Context, kind servers.Kind, id servers.OrderId) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	orderKind, orderID, err := parseOrderPath(kind, id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	var body servers.ChargeOrderJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	method, err := payment.ParseMethod(string(body.Method))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewChargeOrderCommand(sess, orderKind, orderID, method)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	charged, err := s.chargeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(charged))
}

// CreateTableOrder handles POST /api/v1/table-orders.
func (s *Server) CreateTableOrder(ctx echo.Context) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	var body servers.CreateTableOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	items, err := parseItems(body.Items)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewCreateTableOrderCommand(sess, body.TableNumber, items)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	created, err := s.createTableOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// AmendTableOrder handles PUT /api/v1/table-orders/{id} - resubmits the table
// and items of a pending table order.
func (s *Server) AmendTableOrder(ctx echo.Context, id servers.OrderId) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	orderID, err := kernel.NewID(id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	var body servers.AmendTableOrderJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	items, err := parseItems(body.Items)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewAmendTableOrderCommand(sess, orderID, body.TableNumber, items)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	amended, err := s.amendTableOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(amended))
}

// CreateAppOrder handles POST /api/v1/app-orders - a customer orders from the menu.
func (s *Server) CreateAppOrder(ctx echo.Context) error {
	sess, ok := currentSession(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	var body servers.CreateAppOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	items, err := parseItems(body.Items)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewCreateAppOrderCommand(sess, items)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	created, err := s.createAppOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// GetOpenAPIDocument handles GET /api/v1/openapi.json.
func (s *Server) GetOpenAPIDocument(ctx echo.Context) error {
	document, err := s.document()
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, document)
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code, message := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "status", code, "error", err)
	}
	return writeError(ctx, code, message)
}

func unauthorized(ctx echo.Context) error {
	return writeError(ctx, http.StatusUnauthorized, "Authorization header required")
}

func parseOrderPath(kind servers.Kind, id servers.OrderId) (order.Kind, kernel.ID, error) {
	orderKind, err := order.ParseKind(string(kind))
	if err != nil {
		return order.UnknownKind, kernel.ID{}, err
	}
	orderID, err := kernel.NewID(id)
	if err != nil {
		return order.UnknownKind, kernel.ID{}, err
	}
	return orderKind, orderID, nil
}

func parseItems(body []servers.NewOrderItem) ([]commands.OrderItem, error) {
	items := make([]commands.OrderItem, len(body))
	for i, item := range body {
		productID, err := kernel.NewID(item.ProductId)
		if err != nil {
			return nil, fmt.Errorf("items[%d].productId is required", i)
		}
		items[i] = commands.OrderItem{ProductID: productID, Quantity: item.Quantity}
	}
	return items, nil
}
