package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	pnl "go-oiltrade-pnl"
)

// Config is the full runtime configuration, loaded from the environment
// with an optional .env file. Secrets (the HubSpot token) only ever enter
// through here, never through the calculation core.
type Config struct {
	HTTP struct {
		Addr string `envconfig:"HTTP_ADDR" default:":8080"`
	}

	Rates struct {
		URL             string        `envconfig:"RATES_URL" default:"https://api.exchangerate-api.com/v4"`
		Base            pnl.Currency  `envconfig:"RATES_BASE" default:"EUR"`
		Timeout         time.Duration `envconfig:"RATES_TIMEOUT" default:"10s"`
		RefreshInterval time.Duration `envconfig:"RATES_REFRESH_INTERVAL" default:"1h"`
		FallbackEURUSD  float64       `envconfig:"RATES_FALLBACK_EUR_USD" default:"1.164"`
		FallbackEURMDL  float64       `envconfig:"RATES_FALLBACK_EUR_MDL" default:"19.5"`
	}

	HubSpot struct {
		AccessToken string        `envconfig:"HUBSPOT_ACCESS_TOKEN"`
		URL         string        `envconfig:"HUBSPOT_URL" default:"https://api.hubapi.com"`
		Timeout     time.Duration `envconfig:"HUBSPOT_TIMEOUT" default:"15s"`
	}

	Trading struct {
		TruckCapacityTons float64 `envconfig:"TRUCK_CAPACITY_TONS" default:"24"`
		DefaultVATPercent float64 `envconfig:"DEFAULT_VAT_PERCENT" default:"20"`
	}

	Presets struct {
		Path string `envconfig:"PRESETS_PATH" default:"presets.yaml"`
	}
}

// ValidateConfig checks the loaded values make sense together.
func ValidateConfig(cfg *Config) error {
	if !cfg.Rates.Base.Known() {
		return fmt.Errorf("RATES_BASE must be one of %v", pnl.Currencies)
	}
	if cfg.Rates.RefreshInterval < time.Minute {
		return fmt.Errorf("RATES_REFRESH_INTERVAL must be at least 1m")
	}
	if cfg.Rates.FallbackEURUSD <= 0 || cfg.Rates.FallbackEURMDL <= 0 {
		return fmt.Errorf("fallback rates must be positive")
	}
	if cfg.Trading.TruckCapacityTons <= 0 {
		return fmt.Errorf("TRUCK_CAPACITY_TONS must be positive")
	}
	if cfg.Trading.DefaultVATPercent < 0 || cfg.Trading.DefaultVATPercent >= 100 {
		return fmt.Errorf("DEFAULT_VAT_PERCENT must be in [0, 100)")
	}
	return nil
}

// LoadConfig loads configuration from the environment. A .env file is
// picked up when present and silently skipped otherwise.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// FallbackRates returns the configured static quotes against the rate base.
func (c *Config) FallbackRates() pnl.Rates {
	return pnl.Rates{
		pnl.USD: pnl.Rate(c.Rates.FallbackEURUSD),
		pnl.MDL: pnl.Rate(c.Rates.FallbackEURMDL),
	}
}
