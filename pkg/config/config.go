package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHRONOSHOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CHRONOSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHRONOSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL   string        `envconfig:"CHRONOSHOP_API_BASE_URL" required:"true"`
	Timeout   time.Duration `envconfig:"CHRONOSHOP_API_TIMEOUT" default:"0"`
	UserAgent string        `envconfig:"CHRONOSHOP_API_USER_AGENT" default:"chronoshop-storefront/1.0"`
}

type CheckoutConfig struct {
	DefaultCountry string `envconfig:"CHRONOSHOP_CHECKOUT_DEFAULT_COUNTRY" default:"United States"`
}

func (a APIConfig) validate() error {
	raw := strings.TrimSpace(a.BaseURL)
	if raw == "" {
		return fmt.Errorf("%s is required", EnvAPIBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL", EnvAPIBaseURL)
	}
	return nil
}
