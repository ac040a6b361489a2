package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, built once at startup and
// passed down explicitly. Missing required values abort the process
// instead of serving degraded traffic.
type Config struct {
	Port string
	Env  string

	MongoURI string
	DBName   string

	JWTSecret string

	PaystackSecretKey     string
	CoinbaseAPIKey        string
	CoinbaseWebhookSecret string
	CoinbaseRedirectURL   string
	CoinbaseCancelURL     string

	AllowedOrigins []string

	ResetPasswordURL string
	SMTP             *SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Load reads .env if present and builds the Config from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "5000"),
		Env:                   getEnv("APP_ENV", "development"),
		MongoURI:              os.Getenv("MONGO_URI"),
		DBName:                getEnv("DB_NAME", "giftwell"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		PaystackSecretKey:     os.Getenv("PAYSTACK_SECRET_KEY"),
		CoinbaseAPIKey:        os.Getenv("COINBASE_API_KEY"),
		CoinbaseWebhookSecret: os.Getenv("COINBASE_WEBHOOK_SECRET"),
		CoinbaseRedirectURL:   getEnv("COINBASE_REDIRECT_URL", "https://giftwell.pro/thankyou.html"),
		CoinbaseCancelURL:     getEnv("COINBASE_CANCEL_URL", "https://giftwell.pro/checkout.html"),
		ResetPasswordURL:      getEnv("RESET_PASSWORD_URL", "https://giftwell.pro/reset-password"),
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	var missing []string
	for name, val := range map[string]string{
		"MONGO_URI":           cfg.MongoURI,
		"JWT_SECRET":          cfg.JWTSecret,
		"PAYSTACK_SECRET_KEY": cfg.PaystackSecretKey,
		"COINBASE_API_KEY":    cfg.CoinbaseAPIKey,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	// SMTP is optional; without it reset links are only logged.
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP = &SMTPConfig{
			Host:     host,
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
