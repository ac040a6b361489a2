package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test")
	t.Setenv("COINBASE_API_KEY", "cb_key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "giftwell", cfg.DBName)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Nil(t, cfg.SMTP)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOriginsSplitting(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://giftwell.pro, https://www.giftwell.pro ,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://giftwell.pro", "https://www.giftwell.pro"}, cfg.AllowedOrigins)
}

func TestLoadSMTPOptional(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("SMTP_PASS", "pw")

	cfg, err := Load()

	require.NoError(t, err)
	require.NotNil(t, cfg.SMTP)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
}
