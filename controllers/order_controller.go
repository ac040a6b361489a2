package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftwell-backend/middleware"
	"giftwell-backend/models"
)

type OrderHistoryAPI interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type OrderController struct {
	orders OrderHistoryAPI
}

func NewOrderController(orders OrderHistoryAPI) *OrderController {
	return &OrderController{orders: orders}
}

func (ctrl *OrderController) History(c *gin.Context) {
	orders, err := ctrl.orders.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
