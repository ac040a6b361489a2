package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"giftwell-backend/controllers"
	"giftwell-backend/middleware"
)

// Deps carries the wired controllers and the token verifier the route
// table needs. Everything is constructed in main and passed in.
type Deps struct {
	Auth     *controllers.AuthController
	Cart     *controllers.CartController
	Payment  *controllers.PaymentController
	Orders   *controllers.OrderController
	Verifier middleware.TokenVerifier
}

func Register(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(rate.Every(time.Second), 20))
	{
		auth.POST("/signup", d.Auth.Signup)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/logout", d.Auth.Logout)
		auth.GET("/isLoggedIn", d.Auth.IsLoggedIn)
		auth.POST("/forgot-password", d.Auth.ForgotPassword)
		auth.POST("/reset-password", d.Auth.ResetPassword)
	}

	cart := api.Group("/cart")
	cart.Use(middleware.RequireAuth(d.Verifier))
	{
		cart.GET("", d.Cart.Get)
		cart.POST("/add", d.Cart.Add)
		cart.PUT("/update", d.Cart.Update)
		cart.DELETE("/remove/:productId", d.Cart.Remove)
		cart.POST("/merge", d.Cart.Merge)
		cart.DELETE("/clear", d.Cart.Clear)
	}

	payment := api.Group("/payment")
	{
		payment.POST("/create-order", middleware.OptionalAuth(d.Verifier), d.Payment.CreateOrder)
		payment.POST("/create-charge", middleware.RequireAuth(d.Verifier), d.Payment.CreateCharge)
	}

	api.POST("/paystack/verify", middleware.OptionalAuth(d.Verifier), d.Payment.PaystackVerify)
	api.POST("/coinbase/webhook", d.Payment.CoinbaseWebhook)

	api.GET("/order_history", middleware.RequireAuth(d.Verifier), d.Orders.History)
}
