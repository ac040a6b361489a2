package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"giftwell-backend/config"
	"giftwell-backend/controllers"
	"giftwell-backend/database"
	"giftwell-backend/logger"
	"giftwell-backend/mailer"
	"giftwell-backend/payments"
	"giftwell-backend/repository"
	"giftwell-backend/routes"
	"giftwell-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := logger.Initialize(cfg.Env); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Log.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	cols := database.NewCollections(client.Database(cfg.DBName))
	if err := database.EnsureIndexes(ctx, cols); err != nil {
		logger.Log.Fatal("index creation failed", zap.Error(err))
	}
	logger.Log.Info("connected to mongodb", zap.String("database", cfg.DBName))

	var mail mailer.EmailSender = mailer.LogSender{}
	if cfg.SMTP != nil {
		mail = mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	}

	users := repository.NewUserRepository(cols.Users)
	carts := repository.NewCartRepository(cols.Carts)
	orders := repository.NewOrderRepository(cols.Orders)
	resetTokens := repository.NewResetTokenRepository(cols.ResetTokens)

	authService := services.NewAuthService(users, resetTokens, mail, cfg.JWTSecret, cfg.ResetPasswordURL)
	cartService := services.NewCartService(carts)
	orderService := services.NewOrderService(orders, cartService)

	paystack := payments.NewPaystackClient(cfg.PaystackSecretKey)
	coinbase := payments.NewCoinbaseClient(cfg.CoinbaseAPIKey)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(gin.Recovery(), logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Deps{
		Auth:     controllers.NewAuthController(authService),
		Cart:     controllers.NewCartController(cartService),
		Payment:  controllers.NewPaymentController(orderService, paystack, coinbase, cfg.CoinbaseRedirectURL, cfg.CoinbaseCancelURL, cfg.CoinbaseWebhookSecret),
		Orders:   controllers.NewOrderController(orderService),
		Verifier: authService,
	})

	logger.Log.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server exited", zap.Error(err))
	}
}
