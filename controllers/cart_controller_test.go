package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"giftwell-backend/apperr"
	"giftwell-backend/middleware"
	"giftwell-backend/models"
)

type MockCartAPI struct{ mock.Mock }

func (m *MockCartAPI) Get(ctx context.Context, userID string) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	args := m.Called(ctx, userID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) Merge(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	args := m.Called(ctx, userID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// performAsUser runs a handler with an authenticated session already on
// the context, the way RequireAuth would leave it.
func performAsUser(t *testing.T, userID string, handler gin.HandlerFunc, method, target string, body interface{}, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, userID)
	c.Params = params
	handler(c)
	return w
}

func sampleCart(userID string) *models.Cart {
	cart := models.NewCart(userID)
	cart.AddItem(models.CartItem{ProductID: "p1", Name: "Mug", Price: 12.5, Quantity: 2})
	return cart
}

func TestCartControllerGet(t *testing.T) {
	carts := new(MockCartAPI)
	carts.On("Get", mock.Anything, "u1").Return(sampleCart("u1"), nil).Once()

	w := performAsUser(t, "u1", NewCartController(carts).Get, http.MethodGet, "/api/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 25.0, body["total"])
	assert.Len(t, body["items"], 1)
}

func TestCartControllerAdd(t *testing.T) {
	t.Run("quantity defaults to one when omitted", func(t *testing.T) {
		carts := new(MockCartAPI)
		carts.On("AddItem", mock.Anything, "u1", mock.MatchedBy(func(item models.CartItem) bool {
			return item.ProductID == "p1" && item.Quantity == 1
		})).Return(sampleCart("u1"), nil).Once()

		w := performAsUser(t, "u1", NewCartController(carts).Add, http.MethodPost, "/api/cart/add", gin.H{
			"productId": "p1",
			"name":      "Mug",
			"price":     12.5,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		carts.AssertExpectations(t)
	})

	t.Run("explicit quantity is kept", func(t *testing.T) {
		carts := new(MockCartAPI)
		carts.On("AddItem", mock.Anything, "u1", mock.MatchedBy(func(item models.CartItem) bool {
			return item.Quantity == 3
		})).Return(sampleCart("u1"), nil).Once()

		w := performAsUser(t, "u1", NewCartController(carts).Add, http.MethodPost, "/api/cart/add", gin.H{
			"productId": "p1",
			"name":      "Mug",
			"price":     12.5,
			"quantity":  3,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		carts.AssertExpectations(t)
	})

	t.Run("invalid item", func(t *testing.T) {
		carts := new(MockCartAPI)
		carts.On("AddItem", mock.Anything, "u1", mock.Anything).
			Return(nil, apperr.Validation("Item price must be greater than zero")).Once()

		w := performAsUser(t, "u1", NewCartController(carts).Add, http.MethodPost, "/api/cart/add", gin.H{
			"productId": "p1",
			"name":      "Mug",
			"price":     0,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartControllerUpdate(t *testing.T) {
	t.Run("missing product id", func(t *testing.T) {
		carts := new(MockCartAPI)

		w := performAsUser(t, "u1", NewCartController(carts).Update, http.MethodPut, "/api/cart/update", gin.H{
			"quantity": 2,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		carts.AssertNotCalled(t, "UpdateQuantity")
	})

	t.Run("success", func(t *testing.T) {
		carts := new(MockCartAPI)
		carts.On("UpdateQuantity", mock.Anything, "u1", "p1", 4).Return(sampleCart("u1"), nil).Once()

		w := performAsUser(t, "u1", NewCartController(carts).Update, http.MethodPut, "/api/cart/update", gin.H{
			"productId": "p1",
			"quantity":  4,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		carts.AssertExpectations(t)
	})
}

func TestCartControllerRemove(t *testing.T) {
	carts := new(MockCartAPI)
	carts.On("RemoveItem", mock.Anything, "u1", "p1").Return(sampleCart("u1"), nil).Once()

	w := performAsUser(t, "u1", NewCartController(carts).Remove, http.MethodDelete, "/api/cart/remove/p1", nil,
		gin.Param{Key: "productId", Value: "p1"})

	assert.Equal(t, http.StatusOK, w.Code)
	carts.AssertExpectations(t)
}

func TestCartControllerMerge(t *testing.T) {
	carts := new(MockCartAPI)
	carts.On("Merge", mock.Anything, "u1", mock.MatchedBy(func(items []models.CartItem) bool {
		return len(items) == 2 && items[1].Quantity == 1
	})).Return(sampleCart("u1"), nil).Once()

	w := performAsUser(t, "u1", NewCartController(carts).Merge, http.MethodPost, "/api/cart/merge", gin.H{
		"items": []gin.H{
			{"productId": "p1", "name": "Mug", "price": 12.5, "quantity": 2},
			{"productId": "p2", "name": "Card", "price": 3},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	carts.AssertExpectations(t)
}

func TestCartControllerClear(t *testing.T) {
	carts := new(MockCartAPI)
	carts.On("Clear", mock.Anything, "u1").Return(nil).Once()

	w := performAsUser(t, "u1", NewCartController(carts).Clear, http.MethodDelete, "/api/cart/clear", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	carts.AssertExpectations(t)
}
