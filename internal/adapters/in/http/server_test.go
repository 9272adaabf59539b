package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpadapter "comanda/internal/adapters/in/http"
	"comanda/internal/adapters/out/backend"
	"comanda/internal/adapters/in/http/servers"
	"comanda/internal/adapters/out/memory"
	"comanda/internal/adapters/out/rabbitmq"
	"comanda/internal/core/application/usecases/commands"
	"comanda/internal/core/application/usecases/queries"
	"comanda/internal/core/domain/services"
	"comanda/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend plays the restaurant backend for a single table order, id 7,
// plus the app orders customers place through it.
type fakeBackend struct {
	mu          sync.Mutex
	status      string
	failUpdates bool
	updates     []string
	payments    int
	appOrders   int
}

type backendUser struct {
	id   int
	role string
}

var backendUsers = map[string]backendUser{
	"cocina@comanda.test":   {id: 3, role: "COCINERO"},
	"mesero@comanda.test":   {id: 3, role: "MESERO"},
	"caja@comanda.test":     {id: 3, role: "CAJERO"},
	"marta@comanda.test":    {id: 21, role: "CLIENTE"},
	"federico@comanda.test": {id: 22, role: "CLIENTE"},
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		user, ok := backendUsers[body.Email]
		if !ok || body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Credenciales incorrectas"}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"usuario":{"id":%d,"nombre":"Ana","apellido":"Ruiz","rol":%q}}`, user.id, user.role)

	case r.Method == http.MethodGet && r.URL.Path == "/api/mesas-ordenes/7":
		_, _ = io.WriteString(w, tableOrderJSON(7, 4, f.status))

	case r.Method == http.MethodPut && r.URL.Path == "/api/mesas-ordenes/7/estado":
		if f.failUpdates {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var body struct {
			Estado string `json:"estado"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.status = body.Estado
		f.updates = append(f.updates, body.Estado)
		_, _ = io.WriteString(w, tableOrderJSON(7, 4, f.status))

	case r.Method == http.MethodPost && r.URL.Path == "/api/pagos":
		f.status = "COBRADO"
		f.payments++
		w.WriteHeader(http.StatusCreated)

	case r.Method == http.MethodPost && r.URL.Path == "/api/mesas-ordenes":
		var body struct {
			NumeroMesa int `json:"numeroMesa"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, tableOrderJSON(8, body.NumeroMesa, "PENDIENTE"))

	case r.Method == http.MethodPut && r.URL.Path == "/api/mesas-ordenes/8":
		var body struct {
			NumeroMesa int `json:"numeroMesa"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, tableOrderJSON(8, body.NumeroMesa, "PENDIENTE"))

	case r.Method == http.MethodPost && r.URL.Path == "/api/pedidos":
		var body struct {
			UsuarioID int `json:"usuarioId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appOrders++
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"id":%d,"estado":"PENDIENTE","fechaPedido":"2025-03-01T12:00:00",`+
			`"usuario":{"id":%d,"nombre":"Cliente"},`+
			`"detalles":[{"producto":{"id":4,"nombre":"Empanada","precio":800},"cantidad":1,"precioUnitario":800}]}`,
			49+f.appOrders, body.UsuarioID)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"No encontrado"}`)
	}
}

func (f *fakeBackend) snapshot() (string, []string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, append([]string(nil), f.updates...), f.payments
}

func tableOrderJSON(id, table int, status string) string {
	return fmt.Sprintf(`{"id":%d,"numeroMesa":%d,"estado":%q,"fechaPedido":"2025-03-01T12:00:00",`+
		`"detalles":[{"productoId":1,"nombreProducto":"Taco","cantidad":2,"precioUnitario":1500}]}`,
		id, table, status)
}

func newTestAPI(t *testing.T, fake *fakeBackend) *echo.Echo {
	t.Helper()

	backendServer := httptest.NewServer(fake)
	t.Cleanup(backendServer.Close)

	logger := slog.New(slog.DiscardHandler)
	client, err := backend.NewClient(backendServer.URL, time.Second, logger)
	require.NoError(t, err)

	store := memory.NewBoardStore()
	registry := memory.NewSessionRegistry()
	publisher := rabbitmq.NoopPublisher{}
	selector := services.NewBoardSelector()
	refresher := jobs.NewJobManager(client, store, time.Hour, logger)

	tokens, err := httpadapter.NewTokenIssuer("test-secret")
	require.NoError(t, err)

	server := httpadapter.NewServer(
		commands.NewStartSessionCommandHandler(client, registry, time.Hour, logger),
		commands.NewEndSessionCommandHandler(registry),
		commands.NewChangeOrderStatusCommandHandler(client, store, refresher, publisher, logger),
		commands.NewChargeOrderCommandHandler(client, store, refresher, publisher, logger),
		commands.NewCreateTableOrderCommandHandler(client, store, refresher, logger),
		commands.NewAmendTableOrderCommandHandler(client, store, refresher, logger),
		commands.NewCreateAppOrderCommandHandler(client, store, refresher, logger),
		queries.NewGetBoardQueryHandler(store, selector),
		queries.NewGetOrderQueryHandler(store, client, selector),
		tokens,
		logger,
	)
	return httpadapter.NewRouter(server, registry)
}

func call(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signIn(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	rec := call(t, e, http.MethodPost, "/api/v1/sessions", "",
		fmt.Sprintf(`{"email":%q,"password":"secret"}`, email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sess servers.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAPI_Health(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})

	rec := call(t, e, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestAPI_SignInAndOut(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})

	rec := call(t, e, http.MethodPost, "/api/v1/sessions", "", `{"email":"cocina@comanda.test","password":"secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decode[servers.Session](t, rec)
	assert.Equal(t, "COCINERO", sess.User.Role)
	assert.Equal(t, "Ana Ruiz", sess.User.Name)
	assert.Equal(t, "3", sess.User.Id)

	rec = call(t, e, http.MethodGet, "/api/v1/boards/COCINERO?kind=TABLE", sess.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, e, http.MethodDelete, "/api/v1/sessions/current", sess.Token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/v1/boards/COCINERO?kind=TABLE", sess.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_SignIn_Rejected(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"email":"cocina@comanda.test","password":"nope"}`, http.StatusUnauthorized},
		{"missing email", `{"password":"secret"}`, http.StatusBadRequest},
		{"not json", `email=x`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, e, http.MethodPost, "/api/v1/sessions", "", tt.body)

			assert.Equal(t, tt.code, rec.Code)
			errBody := decode[servers.Error](t, rec)
			assert.Equal(t, tt.code, errBody.Code)
		})
	}
}

func TestAPI_RequiresSession(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/TABLE/7", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAPI_KitchenStartsPreparing(t *testing.T) {
	fake := &fakeBackend{status: "PENDIENTE"}
	e := newTestAPI(t, fake)
	token := signIn(t, e, "cocina@comanda.test")

	rec := call(t, e, http.MethodPut, "/api/v1/orders/TABLE/7/status", token, `{"status":"PREPARING"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[servers.Order](t, rec)
	assert.Equal(t, "PREPARING", updated.Status)
	assert.Equal(t, "PREPARANDO", updated.BackendStatus)
	assert.Equal(t, "3000.00", updated.Total)
	require.NotNil(t, updated.TableNumber)
	assert.Equal(t, 4, *updated.TableNumber)

	_, updates, _ := fake.snapshot()
	assert.Equal(t, []string{"PREPARANDO"}, updates)

	rec = call(t, e, http.MethodGet, "/api/v1/boards/COCINERO?kind=TABLE", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[servers.Board](t, rec)
	require.Len(t, board.Cards, 1)
	assert.Equal(t, "7", board.Cards[0].Order.Id)
	assert.Equal(t, []string{"READY"}, board.Cards[0].Actions)
}

func TestAPI_IllegalTransitionIsConflict(t *testing.T) {
	fake := &fakeBackend{status: "PENDIENTE"}
	e := newTestAPI(t, fake)
	token := signIn(t, e, "cocina@comanda.test")

	tests := []struct {
		name   string
		status string
	}{
		{"skips a step", "READY"},
		{"outside the table vocabulary", "PREPARED"},
		{"made up", "FLYING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, e, http.MethodPut, "/api/v1/orders/TABLE/7/status", token,
				fmt.Sprintf(`{"status":%q}`, tt.status))

			assert.Equal(t, http.StatusConflict, rec.Code)
		})
	}

	_, updates, _ := fake.snapshot()
	assert.Empty(t, updates)
}

func TestAPI_RoleNotPermittedIsForbidden(t *testing.T) {
	fake := &fakeBackend{status: "PENDIENTE"}
	e := newTestAPI(t, fake)
	token := signIn(t, e, "mesero@comanda.test")

	rec := call(t, e, http.MethodPut, "/api/v1/orders/TABLE/7/status", token, `{"status":"PREPARING"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, updates, _ := fake.snapshot()
	assert.Empty(t, updates)
}

func TestAPI_BackendFailureKeepsLastConfirmedStatus(t *testing.T) {
	fake := &fakeBackend{status: "PENDIENTE", failUpdates: true}
	e := newTestAPI(t, fake)
	token := signIn(t, e, "cocina@comanda.test")

	rec := call(t, e, http.MethodPut, "/api/v1/orders/TABLE/7/status", token, `{"status":"PREPARING"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/v1/orders/TABLE/7", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[servers.OrderDetail](t, rec)
	assert.Equal(t, "PENDING", detail.Order.Status)
	assert.Equal(t, []string{"PREPARING", "CANCELLED"}, detail.AllowedTransitions)
	assert.Equal(t, []string{"PREPARING"}, detail.Actions)
}

func TestAPI_GetOrder_NotFound(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
	token := signIn(t, e, "cocina@comanda.test")

	rec := call(t, e, http.MethodGet, "/api/v1/orders/TABLE/99", token, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_GetOrder_BadKind(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
	token := signIn(t, e, "cocina@comanda.test")

	rec := call(t, e, http.MethodGet, "/api/v1/orders/BOAT/7", token, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_BoardOfAnotherRoleIsForbidden(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
	token := signIn(t, e, "mesero@comanda.test")

	rec := call(t, e, http.MethodGet, "/api/v1/boards/kitchen?kind=TABLE", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/v1/boards/waiter", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_CreateTableOrder(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
	waiter := signIn(t, e, "mesero@comanda.test")
	kitchen := signIn(t, e, "cocina@comanda.test")
	body := `{"tableNumber":5,"items":[{"productId":"1","quantity":2}]}`

	rec := call(t, e, http.MethodPost, "/api/v1/table-orders", waiter, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[servers.Order](t, rec)
	assert.Equal(t, "8", created.Id)
	assert.Equal(t, servers.TABLE, created.Kind)
	assert.Equal(t, "PENDING", created.Status)
	require.NotNil(t, created.TableNumber)
	assert.Equal(t, 5, *created.TableNumber)

	rec = call(t, e, http.MethodGet, "/api/v1/boards/MESERO?kind=TABLE", waiter, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[servers.Board](t, rec).Cards, 1)

	rec = call(t, e, http.MethodPost, "/api/v1/table-orders", kitchen, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/v1/table-orders", waiter, `{"tableNumber":0,"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_AmendTableOrder(t *testing.T) {
	t.Run("pending order gets the new table", func(t *testing.T) {
		// Arrange
		e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
		waiter := signIn(t, e, "mesero@comanda.test")
		rec := call(t, e, http.MethodPost, "/api/v1/table-orders", waiter,
			`{"tableNumber":5,"items":[{"productId":"1","quantity":2}]}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// Act
		rec = call(t, e, http.MethodPut, "/api/v1/table-orders/8", waiter,
			`{"tableNumber":6,"items":[{"productId":"1","quantity":3}]}`)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		amended := decode[servers.Order](t, rec)
		require.NotNil(t, amended.TableNumber)
		assert.Equal(t, 6, *amended.TableNumber)

		rec = call(t, e, http.MethodGet, "/api/v1/orders/TABLE/8", waiter, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, decode[servers.OrderDetail](t, rec).Order.TableNumber)
	})

	t.Run("order the kitchen started is a conflict", func(t *testing.T) {
		// Arrange
		e := newTestAPI(t, &fakeBackend{status: "PREPARANDO"})
		waiter := signIn(t, e, "mesero@comanda.test")

		// Act
		rec := call(t, e, http.MethodPut, "/api/v1/table-orders/7", waiter,
			`{"tableNumber":6,"items":[{"productId":"1","quantity":3}]}`)

		// Assert
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("kitchen cannot amend", func(t *testing.T) {
		// Arrange
		e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
		kitchen := signIn(t, e, "cocina@comanda.test")

		// Act
		rec := call(t, e, http.MethodPut, "/api/v1/table-orders/7", kitchen,
			`{"tableNumber":6,"items":[{"productId":"1","quantity":3}]}`)

		// Assert
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAPI_CustomersOnlyReachTheirOwnOrders(t *testing.T) {
	// Arrange
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
	marta := signIn(t, e, "marta@comanda.test")
	federico := signIn(t, e, "federico@comanda.test")
	body := `{"items":[{"productId":"4","quantity":1}]}`

	rec := call(t, e, http.MethodPost, "/api/v1/app-orders", marta, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	martas := decode[servers.Order](t, rec)
	require.NotNil(t, martas.Customer)
	require.NotNil(t, martas.Customer.Id)
	assert.Equal(t, "21", *martas.Customer.Id)

	rec = call(t, e, http.MethodPost, "/api/v1/app-orders", federico, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Act
	boardRec := call(t, e, http.MethodGet, "/api/v1/boards/CLIENTE?kind=APP", marta, "")
	detailRec := call(t, e, http.MethodGet, "/api/v1/orders/APP/"+martas.Id, federico, "")
	cancelRec := call(t, e, http.MethodPut, "/api/v1/orders/APP/"+martas.Id+"/status", federico,
		`{"status":"CANCELLED"}`)

	// Assert
	require.Equal(t, http.StatusOK, boardRec.Code, boardRec.Body.String())
	board := decode[servers.Board](t, boardRec)
	require.Len(t, board.Cards, 1)
	assert.Equal(t, martas.Id, board.Cards[0].Order.Id)
	assert.Equal(t, http.StatusNotFound, detailRec.Code)
	assert.Equal(t, http.StatusForbidden, cancelRec.Code)
}

func TestAPI_CreateAppOrder_WaiterIsForbidden(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})
	waiter := signIn(t, e, "mesero@comanda.test")

	rec := call(t, e, http.MethodPost, "/api/v1/app-orders", waiter, `{"items":[{"productId":"4","quantity":1}]}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_CashierChargesDeliveredOrder(t *testing.T) {
	fake := &fakeBackend{status: "ENTREGADO"}
	e := newTestAPI(t, fake)
	token := signIn(t, e, "caja@comanda.test")

	rec := call(t, e, http.MethodPost, "/api/v1/orders/TABLE/7/charge", token, `{"method":"EFECTIVO"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	charged := decode[servers.Order](t, rec)
	assert.Equal(t, "CHARGED", charged.Status)
	assert.True(t, charged.Terminal)
	status, _, payments := fake.snapshot()
	assert.Equal(t, "COBRADO", status)
	assert.Equal(t, 1, payments)

	rec = call(t, e, http.MethodPost, "/api/v1/orders/TABLE/7/charge", token, `{"method":"EFECTIVO"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/v1/orders/TABLE/7/charge", token, `{"method":"BITCOIN"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_OpenAPIDocument(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})

	rec := call(t, e, http.MethodGet, "/api/v1/openapi.json", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/orders/{kind}/{id}/status")
}

func TestAPI_UnknownRouteUsesErrorShape(t *testing.T) {
	e := newTestAPI(t, &fakeBackend{status: "PENDIENTE"})

	rec := call(t, e, http.MethodGet, "/api/v1/nothing-here", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[servers.Error](t, rec).Code)
}
