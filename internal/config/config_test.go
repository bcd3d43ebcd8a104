package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("BASE_CURRENCY", "")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "KWD", cfg.BaseCurrency)
	assert.Equal(t, "ORD", cfg.OrderNumberPrefix)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BASE_CURRENCY", "usd")
	t.Setenv("ORDER_NUMBER_PREFIX", "mx")
	t.Setenv("REQUEST_TIMEOUT", "9")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("ADMIN_EMAIL", " Owner@Shop.COM ")

	cfg := FromEnv()

	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, "MX", cfg.OrderNumberPrefix)
	assert.Equal(t, 9*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "owner@shop.com", cfg.AdminEmail)
}

func TestValidateReportsMissingSecret(t *testing.T) {
	cfg := Config{MongoURI: "mongodb://localhost"}
	assert.Equal(t, []string{"JWT_SECRET"}, cfg.Validate())
}
