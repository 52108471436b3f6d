package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Server struct {
		// Port the HTTP API listens on
		Port string `env:"SERVER_PORT" envDefault:"5250"`

		// Allowed CORS origins for the web client
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	// Headless CMS backend holding properties, reservations and users
	CMS struct {
		// Base URL of the CMS, e.g. http://localhost:1337
		BaseURL string `env:"CMS_URL,required"`

		// Admin API token used for server-side reads and the payout job
		AdminToken string `env:"CMS_ADMIN_TOKEN,required"`

		// Secret the CMS signs user session tokens with (HS256)
		JWTSecret string `env:"CMS_JWT_SECRET,required"`
	}

	Stripe struct {
		SecretKey string `env:"STRIPE_SECRET_KEY,required"`

		// ISO currency code used for intents and transfers
		Currency string `env:"STRIPE_CURRENCY" envDefault:"eur"`
	}

	Payout struct {
		// Platform fee retained from each reservation total
		FeeRate float64 `env:"PAYOUT_FEE_RATE" envDefault:"0.15"`

		// Hours a pending reservation is held before funds are transferred
		HoldHours int `env:"PAYOUT_HOLD_HOURS" envDefault:"48"`

		// Minutes between payout scans
		ScanIntervalMinutes int `env:"PAYOUT_SCAN_INTERVAL" envDefault:"60"`
	}

	Ledger struct {
		// SQLite path for the transfer ledger
		Path string `env:"LEDGER_DB_PATH" envDefault:"database/ledger.db"`
	}

	Geocoding struct {
		Enabled  bool   `env:"GEOCODING_ENABLED" envDefault:"true"`
		CacheDir string `env:"GEOCODE_CACHE_DIR"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the business-rule parameters that env parsing cannot.
func (c *Config) Validate() error {
	if c.Payout.FeeRate < 0 || c.Payout.FeeRate >= 1 {
		return fmt.Errorf("payout fee rate must be in [0, 1), got %v", c.Payout.FeeRate)
	}
	if c.Payout.HoldHours <= 0 {
		return fmt.Errorf("payout hold window must be positive, got %d", c.Payout.HoldHours)
	}
	if c.Payout.ScanIntervalMinutes <= 0 {
		return fmt.Errorf("payout scan interval must be positive, got %d", c.Payout.ScanIntervalMinutes)
	}
	return nil
}
