package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"giftwell-backend/apperr"
	"giftwell-backend/logger"
	"giftwell-backend/models"
	"giftwell-backend/repository"
)

// CheckoutData is the validated checkout snapshot an order is built from.
type CheckoutData struct {
	FullName string
	Phone    string
	Address  string
	City     string
	Country  string
	Items    []models.CartItem
	Total    float64
}

// CartClearer is the slice of the cart service the order flow needs.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

type OrderService struct {
	orders repository.OrderStore
	carts  CartClearer
}

func NewOrderService(orders repository.OrderStore, carts CartClearer) *OrderService {
	return &OrderService{orders: orders, carts: carts}
}

// Create persists a pending order. All checkout fields are required;
// missing guest fields are rejected rather than defaulted. The cart is
// not touched here.
func (s *OrderService) Create(ctx context.Context, userID string, data CheckoutData, paymentMethod string) (*models.Order, error) {
	if err := validateCheckout(data); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = models.GuestUserID
	}
	if paymentMethod == "" {
		paymentMethod = "bitcoin"
	}

	order := &models.Order{
		UserID:        userID,
		FullName:      data.FullName,
		Phone:         data.Phone,
		Address:       data.Address,
		City:          data.City,
		Country:       data.Country,
		Items:         data.Items,
		Total:         data.Total,
		Status:        models.OrderStatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     time.Now(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, apperr.Internal(err)
	}
	return order, nil
}

// ConfirmPayment applies a provider outcome to a pending order: success
// moves it to paid and clears the owner's cart, failure moves it to
// failed and leaves the cart alone. Confirming an already-terminal order
// is a no-op, so repeated provider callbacks are harmless.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID primitive.ObjectID, success bool) (*models.Order, error) {
	status := models.OrderStatusPaid
	if !success {
		status = models.OrderStatusFailed
	}

	order, err := s.orders.UpdateStatusIfPending(ctx, orderID, status)
	if errors.Is(err, repository.ErrNotFound) {
		// Absent, or already terminal. Terminal is the idempotent no-op.
		existing, findErr := s.orders.FindByID(ctx, orderID)
		if errors.Is(findErr, repository.ErrNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		if findErr != nil {
			return nil, apperr.Internal(findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if success && order.UserID != models.GuestUserID {
		// Best effort: the payment is settled either way.
		if err := s.carts.Clear(ctx, order.UserID); err != nil {
			logger.Log.Error("cart clear after payment failed",
				zap.String("orderId", order.ID.Hex()),
				zap.String("userId", order.UserID),
				zap.Error(err))
		}
	}

	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

func validateCheckout(data CheckoutData) error {
	for _, field := range []string{data.FullName, data.Phone, data.Address, data.City, data.Country} {
		if strings.TrimSpace(field) == "" {
			return apperr.Validation("Missing required fields")
		}
	}
	if len(data.Items) == 0 {
		return apperr.Validation("Order must contain at least one item")
	}
	for _, item := range data.Items {
		if err := item.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}
	}
	if data.Total <= 0 {
		return apperr.Validation("Total must be greater than zero")
	}
	return nil
}
