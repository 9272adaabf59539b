package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderGateway struct{ mock.Mock }

func (m *MockOrderGateway) ListOrders(ctx context.Context, kind order.Kind) ([]*order.Order, error) {
	args := m.Called(ctx, kind)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderGateway) GetOrder(ctx context.Context, kind order.Kind, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, kind, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderGateway) UpdateStatus(
	ctx context.Context,
	kind order.Kind,
	id kernel.ID,
	status order.Status,
	actor kernel.ID,
) error {
	args := m.Called(ctx, kind, id, status, actor)
	return args.Error(0)
}

func (m *MockOrderGateway) RecordPayment(ctx context.Context, p payment.Payment, actor kernel.ID) error {
	args := m.Called(ctx, p, actor)
	return args.Error(0)
}

func (m *MockOrderGateway) CreateTableOrder(
	ctx context.Context,
	draft ports.TableOrderDraft,
	actor kernel.ID,
) (*order.Order, error) {
	args := m.Called(ctx, draft, actor)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderGateway) AmendTableOrder(
	ctx context.Context,
	id kernel.ID,
	draft ports.TableOrderDraft,
	actor kernel.ID,
) (*order.Order, error) {
	args := m.Called(ctx, id, draft, actor)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderGateway) CreateAppOrder(
	ctx context.Context,
	draft ports.AppOrderDraft,
	actor kernel.ID,
) (*order.Order, error) {
	args := m.Called(ctx, draft, actor)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockBoardStore struct{ mock.Mock }

func (m *MockBoardStore) Replace(ctx context.Context, kind order.Kind, orders []*order.Order) error {
	args := m.Called(ctx, kind, orders)
	return args.Error(0)
}

func (m *MockBoardStore) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockBoardStore) Get(ctx context.Context, kind order.Kind, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, kind, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockBoardStore) List(ctx context.Context, kind order.Kind, statuses []order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, kind, statuses)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockBoardRefresher struct{ mock.Mock }

func (m *MockBoardRefresher) Supersede(kind order.Kind) {
	m.Called(kind)
}

// newRefresher accepts any number of Supersede calls.
func newRefresher() *MockBoardRefresher {
	r := new(MockBoardRefresher)
	r.On("Supersede", mock.Anything).Maybe()
	return r
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(ctx context.Context, event order.StatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockAuthGateway struct{ mock.Mock }

func (m *MockAuthGateway) Login(ctx context.Context, email, password string) (ports.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(ports.User)
	return user, args.Error(1)
}

type MockSessionRegistry struct{ mock.Mock }

func (m *MockSessionRegistry) Start(ctx context.Context, s session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRegistry) Get(ctx context.Context, id kernel.UUID) (session.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(session.Session)
	return s, args.Error(1)
}

func (m *MockSessionRegistry) End(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newSession(t *testing.T, role session.Role) session.Session {
	t.Helper()

	sess, err := session.NewSession(kernel.MustID("7"), "Ana", role, time.Now(), time.Hour)
	require.NoError(t, err)
	return sess
}

func restoreOrder(t *testing.T, kind order.Kind, id string, status order.Status, price string) *order.Order {
	t.Helper()

	item, err := order.RestoreLineItem(kernel.MustID("3"), "Taco", 2, kernel.MustMoney(price))
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:          kernel.MustID(id),
		Kind:        kind,
		Status:      status,
		LineItems:   []order.LineItem{item},
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		TableNumber: 4,
	})
	require.NoError(t, err)
	return o
}

func restoreAppOrder(t *testing.T, id string, status order.Status, customerID string) *order.Order {
	t.Helper()

	item, err := order.RestoreLineItem(kernel.MustID("3"), "Empanada", 1, kernel.MustMoney("800"))
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:        kernel.MustID(id),
		Kind:      order.App,
		Status:    status,
		LineItems: []order.LineItem{item},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Customer:  &order.Party{ID: kernel.MustID(customerID), Name: "Marta"},
	})
	require.NoError(t, err)
	return o
}

func withStatus(status order.Status) any {
	return mock.MatchedBy(func(o *order.Order) bool {
		return o.Status() == status
	})
}
