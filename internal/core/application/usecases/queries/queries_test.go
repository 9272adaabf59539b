package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"comanda/internal/core/application/usecases/queries"
	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/domain/model/payment"
	"comanda/internal/core/domain/model/session"
	"comanda/internal/core/domain/services"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBoardStore struct{ mock.Mock }

func (m *MockBoardStore) Replace(ctx context.Context, kind order.Kind, orders []*order.Order) error {
	return m.Called(ctx, kind, orders).Error(0)
}

func (m *MockBoardStore) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
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

func (m *MockOrderGateway) UpdateStatus(context.Context, order.Kind, kernel.ID, order.Status, kernel.ID) error {
	panic("not used by queries")
}

func (m *MockOrderGateway) RecordPayment(context.Context, payment.Payment, kernel.ID) error {
	panic("not used by queries")
}

func (m *MockOrderGateway) CreateTableOrder(context.Context, ports.TableOrderDraft, kernel.ID) (*order.Order, error) {
	panic("not used by queries")
}

func (m *MockOrderGateway) AmendTableOrder(
	context.Context,
	kernel.ID,
	ports.TableOrderDraft,
	kernel.ID,
) (*order.Order, error) {
	panic("not used by queries")
}

func (m *MockOrderGateway) CreateAppOrder(context.Context, ports.AppOrderDraft, kernel.ID) (*order.Order, error) {
	panic("not used by queries")
}

func restoreOrder(t *testing.T, kind order.Kind, id string, status order.Status, createdAt time.Time) *order.Order {
	t.Helper()

	return restoreOwnedOrder(t, kind, id, status, createdAt, "")
}

// restoreOwnedOrder attaches ownerID as the customer of an app order or the
// waiter of a table order. An empty ownerID leaves the order unassigned.
func restoreOwnedOrder(
	t *testing.T,
	kind order.Kind,
	id string,
	status order.Status,
	createdAt time.Time,
	ownerID string,
) *order.Order {
	t.Helper()

	item, err := order.RestoreLineItem(kernel.MustID("1"), "Pinto", 1, kernel.MustMoney("2500"))
	require.NoError(t, err)

	snapshot := order.Snapshot{
		ID:        kernel.MustID(id),
		Kind:      kind,
		Status:    status,
		LineItems: []order.LineItem{item},
		CreatedAt: createdAt,
	}
	if kind == order.Table {
		snapshot.TableNumber = 3
	}
	if ownerID != "" {
		owner := &order.Party{ID: kernel.MustID(ownerID), Name: "Owner " + ownerID}
		if kind == order.App {
			snapshot.Customer = owner
		} else {
			snapshot.Waiter = owner
		}
	}

	o, err := order.RestoreOrder(snapshot)
	require.NoError(t, err)
	return o
}

func viewer(t *testing.T, userID string, role session.Role) session.Session {
	t.Helper()

	sess, err := session.NewSession(kernel.MustID(userID), "Viewer", role, time.Now(), time.Hour)
	require.NoError(t, err)
	return sess
}

func TestGetBoardQueryHandler_Handle(t *testing.T) {
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("kitchen board, newest first, with actions", func(t *testing.T) {
		store := new(MockBoardStore)
		handler := queries.NewGetBoardQueryHandler(store, services.NewBoardSelector())
		older := restoreOrder(t, order.Table, "1", order.Pending, now.Add(-30*time.Minute))
		newer := restoreOrder(t, order.Table, "2", order.Preparing, now.Add(-5*time.Minute))

		store.On("List", mock.Anything, order.Table, []order.Status{order.Pending, order.Preparing}).
			Return([]*order.Order{older, newer}, nil).Once()

		query, err := queries.NewGetBoardQuery(viewer(t, "5", session.Kitchen), session.Kitchen, order.Table)
		require.NoError(t, err)

		board, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		require.Len(t, board.Cards, 2)
		assert.Equal(t, "2", board.Cards[0].Order.ID().String())
		assert.Equal(t, []order.Status{order.Ready}, board.Cards[0].Actions)
		assert.Equal(t, "1", board.Cards[1].Order.ID().String())
		assert.Equal(t, []order.Status{order.Preparing}, board.Cards[1].Actions)
		store.AssertExpectations(t)
	})

	t.Run("waiter has no app board", func(t *testing.T) {
		store := new(MockBoardStore)
		handler := queries.NewGetBoardQueryHandler(store, services.NewBoardSelector())

		query, err := queries.NewGetBoardQuery(viewer(t, "5", session.Waiter), session.Waiter, order.App)
		require.NoError(t, err)

		board, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Empty(t, board.Cards)
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockBoardStore)
		handler := queries.NewGetBoardQueryHandler(store, services.NewBoardSelector())
		storeErr := errors.New("connection reset")

		store.On("List", mock.Anything, order.Table, mock.Anything).Return(nil, storeErr).Once()

		query, err := queries.NewGetBoardQuery(viewer(t, "5", session.Cashier), session.Cashier, order.Table)
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, storeErr)
	})

	t.Run("zero query", func(t *testing.T) {
		handler := queries.NewGetBoardQueryHandler(new(MockBoardStore), services.NewBoardSelector())

		_, err := handler.Handle(t.Context(), queries.GetBoardQuery{})

		require.ErrorIs(t, err, queries.ErrGetBoardQueryIsNotConstructed)
	})
}

func TestNewGetBoardQuery_Invalid(t *testing.T) {
	_, err := queries.NewGetBoardQuery(session.Session{}, session.UnknownRole, order.UnknownKind)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, session.ErrSessionIsNotConstructed)
}

func TestGetBoardQueryHandler_Handle_OwnOrdersOnly(t *testing.T) {
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("customer sees only their app orders", func(t *testing.T) {
		// Arrange
		store := new(MockBoardStore)
		handler := queries.NewGetBoardQueryHandler(store, services.NewBoardSelector())
		mine := restoreOwnedOrder(t, order.App, "10", order.Pending, now.Add(-time.Minute), "1")
		theirs := restoreOwnedOrder(t, order.App, "11", order.Pending, now, "2")
		store.On("List", mock.Anything, order.App, mock.Anything).
			Return([]*order.Order{mine, theirs}, nil).Once()

		query, err := queries.NewGetBoardQuery(viewer(t, "1", session.Customer), session.Customer, order.App)
		require.NoError(t, err)

		// Act
		board, err := handler.Handle(t.Context(), query)

		// Assert
		require.NoError(t, err)
		require.Len(t, board.Cards, 1)
		assert.Equal(t, "10", board.Cards[0].Order.ID().String())
	})

	t.Run("waiter sees their tables and unassigned ones", func(t *testing.T) {
		// Arrange
		store := new(MockBoardStore)
		handler := queries.NewGetBoardQueryHandler(store, services.NewBoardSelector())
		mine := restoreOwnedOrder(t, order.Table, "20", order.Ready, now.Add(-2*time.Minute), "5")
		unassigned := restoreOwnedOrder(t, order.Table, "21", order.Ready, now.Add(-time.Minute), "")
		theirs := restoreOwnedOrder(t, order.Table, "22", order.Ready, now, "6")
		store.On("List", mock.Anything, order.Table, mock.Anything).
			Return([]*order.Order{mine, unassigned, theirs}, nil).Once()

		query, err := queries.NewGetBoardQuery(viewer(t, "5", session.Waiter), session.Waiter, order.Table)
		require.NoError(t, err)

		// Act
		board, err := handler.Handle(t.Context(), query)

		// Assert
		require.NoError(t, err)
		ids := make([]string, len(board.Cards))
		for i, card := range board.Cards {
			ids[i] = card.Order.ID().String()
		}
		assert.ElementsMatch(t, []string{"20", "21"}, ids)
	})

	t.Run("admin opening the customer board sees everything", func(t *testing.T) {
		// Arrange
		store := new(MockBoardStore)
		handler := queries.NewGetBoardQueryHandler(store, services.NewBoardSelector())
		store.On("List", mock.Anything, order.App, mock.Anything).Return([]*order.Order{
			restoreOwnedOrder(t, order.App, "10", order.Pending, now, "1"),
			restoreOwnedOrder(t, order.App, "11", order.Pending, now, "2"),
		}, nil).Once()

		query, err := queries.NewGetBoardQuery(viewer(t, "9", session.Admin), session.Customer, order.App)
		require.NoError(t, err)

		// Act
		board, err := handler.Handle(t.Context(), query)

		// Assert
		require.NoError(t, err)
		assert.Len(t, board.Cards, 2)
	})
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("stored order", func(t *testing.T) {
		store, gateway := new(MockBoardStore), new(MockOrderGateway)
		handler := queries.NewGetOrderQueryHandler(store, gateway, services.NewBoardSelector())
		o := restoreOwnedOrder(t, order.App, "4", order.Preparing, createdAt, "1")

		store.On("Get", mock.Anything, order.App, kernel.MustID("4")).Return(o, nil).Once()

		query, err := queries.NewGetOrderQuery(viewer(t, "1", session.Customer), order.App, kernel.MustID("4"))
		require.NoError(t, err)

		result, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Same(t, o, result.Order)
		assert.Equal(t, []order.Status{order.Prepared, order.Cancelled}, result.AllowedTransitions)
		assert.Equal(t, []order.Status{order.Cancelled}, result.Actions)
		gateway.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unseen order comes from the backend", func(t *testing.T) {
		store, gateway := new(MockBoardStore), new(MockOrderGateway)
		handler := queries.NewGetOrderQueryHandler(store, gateway, services.NewBoardSelector())
		o := restoreOrder(t, order.Table, "4", order.Charged, createdAt)

		store.On("Get", mock.Anything, order.Table, kernel.MustID("4")).
			Return(nil, errs.NewObjectNotFoundError("order", "4")).Once()
		gateway.On("GetOrder", mock.Anything, order.Table, kernel.MustID("4")).Return(o, nil).Once()

		query, err := queries.NewGetOrderQuery(viewer(t, "9", session.Admin), order.Table, kernel.MustID("4"))
		require.NoError(t, err)

		result, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Empty(t, result.AllowedTransitions)
		assert.Empty(t, result.Actions)
		gateway.AssertExpectations(t)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		store, gateway := new(MockBoardStore), new(MockOrderGateway)
		handler := queries.NewGetOrderQueryHandler(store, gateway, services.NewBoardSelector())
		notFound := errs.NewObjectNotFoundError("order", "4")

		store.On("Get", mock.Anything, order.Table, kernel.MustID("4")).Return(nil, notFound).Once()
		gateway.On("GetOrder", mock.Anything, order.Table, kernel.MustID("4")).Return(nil, notFound).Once()

		query, err := queries.NewGetOrderQuery(viewer(t, "9", session.Admin), order.Table, kernel.MustID("4"))
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
	t.Run("another customer's order is not found", func(t *testing.T) {
		// Arrange
		store, gateway := new(MockBoardStore), new(MockOrderGateway)
		handler := queries.NewGetOrderQueryHandler(store, gateway, services.NewBoardSelector())
		store.On("Get", mock.Anything, order.App, kernel.MustID("4")).
			Return(restoreOwnedOrder(t, order.App, "4", order.Pending, createdAt, "2"), nil).Once()

		query, err := queries.NewGetOrderQuery(viewer(t, "1", session.Customer), order.App, kernel.MustID("4"))
		require.NoError(t, err)

		// Act
		_, err = handler.Handle(t.Context(), query)

		// Assert
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
