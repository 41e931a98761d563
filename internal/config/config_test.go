package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_BASE_URL", "API_TIMEOUT", "STORAGE_DRIVER", "CORS_ORIGINS", "PAYMENT_DELAY", "PAYMENT_SUCCESS_RATE", "RATE_BURST"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.PaymentDelay)
	assert.InDelta(t, 0.9, cfg.PaymentSuccessRate, 1e-9)
	assert.Equal(t, 20, cfg.RateBurst)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("PAYMENT_SUCCESS_RATE", "1")
	t.Setenv("RATE_BURST", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.InDelta(t, 1.0, cfg.PaymentSuccessRate, 1e-9)
	assert.Equal(t, 20, cfg.RateBurst)
}
