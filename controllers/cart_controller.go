package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftwell-backend/middleware"
	"giftwell-backend/models"
)

// CartAPI is the slice of the cart service the controller uses.
type CartAPI interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error)
	Merge(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type CartController struct {
	carts CartAPI
}

func NewCartController(carts CartAPI) *CartController {
	return &CartController{carts: carts}
}

type cartItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  *int    `json:"quantity"`
	Image     string  `json:"image"`
}

func (in cartItemInput) toItem() models.CartItem {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	return models.CartItem{
		ProductID: in.ProductID,
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  quantity,
		Image:     in.Image,
	}
}

func (ctrl *CartController) Get(c *gin.Context) {
	cart, err := ctrl.carts.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cart.Items, "total": cart.Total})
}

func (ctrl *CartController) Add(c *gin.Context) {
	var input cartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	cart, err := ctrl.carts.AddItem(c.Request.Context(), middleware.UserID(c), input.toItem())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added", "cart": cart})
}

func (ctrl *CartController) Update(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	cart, err := ctrl.carts.UpdateQuantity(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated", "cart": cart})
}

func (ctrl *CartController) Remove(c *gin.Context) {
	cart, err := ctrl.carts.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart": cart})
}

func (ctrl *CartController) Merge(c *gin.Context) {
	var input struct {
		Items []cartItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	items := make([]models.CartItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, in.toItem())
	}

	cart, err := ctrl.carts.Merge(c.Request.Context(), middleware.UserID(c), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart merged", "cart": cart})
}

func (ctrl *CartController) Clear(c *gin.Context) {
	if err := ctrl.carts.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
