package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"giftwell-backend/logger"
	"giftwell-backend/middleware"
	"giftwell-backend/models"
	"giftwell-backend/payments"
	"giftwell-backend/services"
)

// OrderAPI is the slice of the order service the payment flow uses.
type OrderAPI interface {
	Create(ctx context.Context, userID string, data services.CheckoutData, paymentMethod string) (*models.Order, error)
	ConfirmPayment(ctx context.Context, orderID primitive.ObjectID, success bool) (*models.Order, error)
}

type CardVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*payments.VerifyResult, error)
}

type ChargeCreator interface {
	CreateCharge(ctx context.Context, req payments.ChargeRequest) (*payments.Charge, error)
}

type PaymentController struct {
	orders        OrderAPI
	card          CardVerifier
	crypto        ChargeCreator
	redirectURL   string
	cancelURL     string
	webhookSecret string
}

func NewPaymentController(orders OrderAPI, card CardVerifier, crypto ChargeCreator, redirectURL, cancelURL, webhookSecret string) *PaymentController {
	return &PaymentController{
		orders:        orders,
		card:          card,
		crypto:        crypto,
		redirectURL:   redirectURL,
		cancelURL:     cancelURL,
		webhookSecret: webhookSecret,
	}
}

type checkoutInput struct {
	FullName string          `json:"fullName"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
	City     string          `json:"city"`
	Country  string          `json:"country"`
	Items    []cartItemInput `json:"items"`
	Total    float64         `json:"total"`
	// The card checkout payload historically names the total "amount".
	Amount float64 `json:"amount"`
}

func (in checkoutInput) toCheckoutData() services.CheckoutData {
	total := in.Total
	if total == 0 {
		total = in.Amount
	}
	items := make([]models.CartItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, item.toItem())
	}
	return services.CheckoutData{
		FullName: in.FullName,
		Phone:    in.Phone,
		Address:  in.Address,
		City:     in.City,
		Country:  in.Country,
		Items:    items,
		Total:    total,
	}
}

// CreateOrder records a manual (pay-later) order with status pending.
// Guests are allowed; an authenticated caller's id is attached when the
// request does not ask for a guest order.
func (ctrl *PaymentController) CreateOrder(c *gin.Context) {
	var input struct {
		checkoutInput
		IsGuest       bool   `json:"isGuest"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	userID := middleware.UserID(c)
	if input.IsGuest || userID == "" {
		userID = models.GuestUserID
	}

	order, err := ctrl.orders.Create(c.Request.Context(), userID, input.toCheckoutData(), input.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order created. Please complete payment manually.",
		"orderId": order.ID.Hex(),
	})
}

// CreateCharge opens a crypto charge for the checkout. The pending order
// is created first so its id travels in the charge metadata; the webhook
// later maps the settlement back through it.
func (ctrl *PaymentController) CreateCharge(c *gin.Context) {
	var input checkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	userID := middleware.UserID(c)
	order, err := ctrl.orders.Create(c.Request.Context(), userID, input.toCheckoutData(), "bitcoin")
	if err != nil {
		respondError(c, err)
		return
	}

	charge, err := ctrl.crypto.CreateCharge(c.Request.Context(), payments.ChargeRequest{
		Name:        "GiftWell Order",
		Description: fmt.Sprintf("%d item(s) for %s", len(order.Items), order.FullName),
		Amount:      order.Total,
		Metadata: map[string]string{
			"orderId": order.ID.Hex(),
			"userId":  order.UserID,
		},
		RedirectURL: ctrl.redirectURL,
		CancelURL:   ctrl.cancelURL,
	})
	if err != nil {
		logger.Log.Error("coinbase charge creation failed",
			zap.String("orderId", order.ID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the charge."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hosted_url": charge.HostedURL})
}

// PaystackVerify checks a card transaction with the provider, then
// creates the order and settles it in one step. Works with or without a
// session; without one the order is recorded as a guest order.
func (ctrl *PaymentController) PaystackVerify(c *gin.Context) {
	var input struct {
		Reference    string         `json:"reference"`
		CheckoutData *checkoutInput `json:"checkoutData"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Reference == "" || input.CheckoutData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reference and complete checkoutData are required"})
		return
	}

	result, err := ctrl.card.VerifyTransaction(c.Request.Context(), input.Reference)
	if err != nil {
		logger.Log.Error("paystack verification failed",
			zap.String("reference", input.Reference), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying payment"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed", "data": json.RawMessage(result.Data)})
		return
	}

	userID := middleware.UserID(c)
	if userID == "" {
		userID = models.GuestUserID
	}

	order, err := ctrl.orders.Create(c.Request.Context(), userID, input.CheckoutData.toCheckoutData(), result.PaymentMethod())
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctrl.orders.ConfirmPayment(c.Request.Context(), order.ID, true); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": json.RawMessage(result.Data)})
}

// CoinbaseWebhook consumes charge lifecycle events. The order id embedded
// in the charge metadata at creation time is the only context needed, so
// the callback carries no session token. Repeated deliveries are no-ops
// because payment confirmation is idempotent.
func (ctrl *PaymentController) CoinbaseWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if ctrl.webhookSecret != "" {
		if !verifyWebhookSignature(body, c.GetHeader("X-CC-Webhook-Signature"), ctrl.webhookSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}
	}

	var event struct {
		Event struct {
			Type string `json:"type"`
			Data struct {
				Code     string            `json:"code"`
				Metadata map[string]string `json:"metadata"`
			} `json:"data"`
		} `json:"event"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var success bool
	switch event.Event.Type {
	case "charge:confirmed":
		success = true
	case "charge:failed":
		success = false
	default:
		// Creation and pending events carry nothing actionable.
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	orderID, err := primitive.ObjectIDFromHex(event.Event.Data.Metadata["orderId"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order reference"})
		return
	}

	if _, err := ctrl.orders.ConfirmPayment(c.Request.Context(), orderID, success); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status recorded"})
}

func verifyWebhookSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
