package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CMS_URL", "http://localhost:1337")
	t.Setenv("CMS_ADMIN_TOKEN", "admin-token")
	t.Setenv("CMS_JWT_SECRET", "jwt-secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, 0.15, cfg.Payout.FeeRate)
	assert.Equal(t, 48, cfg.Payout.HoldHours)
	assert.Equal(t, 60, cfg.Payout.ScanIntervalMinutes)
	assert.Equal(t, "database/ledger.db", cfg.Ledger.Path)
	assert.True(t, cfg.Geocoding.Enabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://staging.example.com")
	t.Setenv("PAYOUT_FEE_RATE", "0.2")
	t.Setenv("PAYOUT_HOLD_HOURS", "24")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 0.2, cfg.Payout.FeeRate)
	assert.Equal(t, 24, cfg.Payout.HoldHours)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CMS_URL", "placeholder")
	os.Unsetenv("CMS_URL")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)

	t.Run("fee rate of one or more rejected", func(t *testing.T) {
		t.Setenv("PAYOUT_FEE_RATE", "1")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("negative fee rate rejected", func(t *testing.T) {
		t.Setenv("PAYOUT_FEE_RATE", "-0.1")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("zero hold window rejected", func(t *testing.T) {
		t.Setenv("PAYOUT_HOLD_HOURS", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("zero scan interval rejected", func(t *testing.T) {
		t.Setenv("PAYOUT_SCAN_INTERVAL", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
