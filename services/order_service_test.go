package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"giftwell-backend/apperr"
	"giftwell-backend/models"
	"giftwell-backend/repository"
)

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Insert(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil && order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockCartClearer struct{ mock.Mock }

func (m *MockCartClearer) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func validCheckout() CheckoutData {
	return CheckoutData{
		FullName: "Jane Doe",
		Phone:    "+233200000000",
		Address:  "12 Ring Road",
		City:     "Accra",
		Country:  "Ghana",
		Items:    []models.CartItem{testItem("p1", 10, 2)},
		Total:    20,
	}
}

func TestOrderCreateValidation(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderStore)
	svc := NewOrderService(orders, new(MockCartClearer))

	t.Run("missing phone is rejected, not defaulted", func(t *testing.T) {
		data := validCheckout()
		data.Phone = ""
		_, err := svc.Create(ctx, "u1", data, "card")
		assert.Equal(t, 400, apperr.From(err).Code)
	})

	t.Run("empty items", func(t *testing.T) {
		data := validCheckout()
		data.Items = nil
		_, err := svc.Create(ctx, "u1", data, "card")
		assert.Equal(t, 400, apperr.From(err).Code)
	})

	t.Run("invalid item price", func(t *testing.T) {
		data := validCheckout()
		data.Items = []models.CartItem{testItem("p1", 0, 1)}
		_, err := svc.Create(ctx, "u1", data, "card")
		assert.Equal(t, 400, apperr.From(err).Code)
	})

	orders.AssertNotCalled(t, "Insert")
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderStore)
	orders.On("Insert", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.Status == models.OrderStatusPending && o.UserID == models.GuestUserID
	})).Return(nil).Once()
	svc := NewOrderService(orders, new(MockCartClearer))

	order, err := svc.Create(ctx, "", validCheckout(), "")

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "bitcoin", order.PaymentMethod)
	orders.AssertExpectations(t)
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	orderID := primitive.NewObjectID()

	t.Run("success clears the owner's cart", func(t *testing.T) {
		orders := new(MockOrderStore)
		carts := new(MockCartClearer)
		paid := &models.Order{ID: orderID, UserID: "u1", Status: models.OrderStatusPaid}
		orders.On("UpdateStatusIfPending", ctx, orderID, models.OrderStatusPaid).Return(paid, nil).Once()
		carts.On("Clear", ctx, "u1").Return(nil).Once()

		order, err := NewOrderService(orders, carts).ConfirmPayment(ctx, orderID, true)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, order.Status)
		carts.AssertExpectations(t)
	})

	t.Run("repeated confirmation is a no-op", func(t *testing.T) {
		orders := new(MockOrderStore)
		carts := new(MockCartClearer)
		paid := &models.Order{ID: orderID, UserID: "u1", Status: models.OrderStatusPaid}
		orders.On("UpdateStatusIfPending", ctx, orderID, models.OrderStatusPaid).Return(nil, repository.ErrNotFound).Once()
		orders.On("FindByID", ctx, orderID).Return(paid, nil).Once()

		order, err := NewOrderService(orders, carts).ConfirmPayment(ctx, orderID, true)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, order.Status)
		// The cart must not be cleared a second time.
		carts.AssertNotCalled(t, "Clear")
	})

	t.Run("failure marks failed and keeps the cart", func(t *testing.T) {
		orders := new(MockOrderStore)
		carts := new(MockCartClearer)
		failed := &models.Order{ID: orderID, UserID: "u1", Status: models.OrderStatusFailed}
		orders.On("UpdateStatusIfPending", ctx, orderID, models.OrderStatusFailed).Return(failed, nil).Once()

		order, err := NewOrderService(orders, carts).ConfirmPayment(ctx, orderID, false)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusFailed, order.Status)
		carts.AssertNotCalled(t, "Clear")
	})

	t.Run("guest orders have no cart to clear", func(t *testing.T) {
		orders := new(MockOrderStore)
		carts := new(MockCartClearer)
		paid := &models.Order{ID: orderID, UserID: models.GuestUserID, Status: models.OrderStatusPaid}
		orders.On("UpdateStatusIfPending", ctx, orderID, models.OrderStatusPaid).Return(paid, nil).Once()

		_, err := NewOrderService(orders, carts).ConfirmPayment(ctx, orderID, true)

		require.NoError(t, err)
		carts.AssertNotCalled(t, "Clear")
	})

	t.Run("unknown order", func(t *testing.T) {
		orders := new(MockOrderStore)
		orders.On("UpdateStatusIfPending", ctx, orderID, models.OrderStatusPaid).Return(nil, repository.ErrNotFound).Once()
		orders.On("FindByID", ctx, orderID).Return(nil, repository.ErrNotFound).Once()

		_, err := NewOrderService(orders, new(MockCartClearer)).ConfirmPayment(ctx, orderID, true)

		assert.Equal(t, 404, apperr.From(err).Code)
	})
}
