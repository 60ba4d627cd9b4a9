// Package config loads the storefront PIX service settings from the
// environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderBackend     = "backend"
	ProviderMercadoPago = "mercadopago"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPPort is the port the BFF listens on.
	HTTPPort string `mapstructure:"HTTP_PORT"`
	// StorefrontAPIURL is the base URL of the storefront backend (orders and PIX endpoints).
	StorefrontAPIURL string `mapstructure:"STOREFRONT_API_URL"`
	// BackendTimeout bounds every call to the storefront backend.
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	PollInterval   time.Duration `mapstructure:"PIX_POLL_INTERVAL"`
	TickInterval   time.Duration `mapstructure:"PIX_TICK_INTERVAL"`
	FallbackWindow time.Duration `mapstructure:"PIX_FALLBACK_WINDOW"`
	// RetainTerminal is how long a finished session stays readable.
	RetainTerminal time.Duration `mapstructure:"PIX_RETAIN_TERMINAL"`

	// PixProvider selects who generates and checks PIX payments: "backend" or "mercadopago".
	PixProvider            string `mapstructure:"PIX_PROVIDER"`
	MercadoPagoAccessToken string `mapstructure:"MERCADOPAGO_ACCESS_TOKEN"`
	// MercadoPagoPayerEmail is sent as payer on PIX payments created directly on Mercado Pago.
	MercadoPagoPayerEmail  string `mapstructure:"MERCADOPAGO_PAYER_EMAIL"`

	// LedgerEnabled turns on the DynamoDB payment attempt ledger.
	LedgerEnabled        bool   `mapstructure:"PAYMENT_LEDGER_ENABLED"`
	PaymentAttemptsTable string `mapstructure:"PAYMENT_ATTEMPTS_TABLE"`

	// KafkaBrokers is a comma-separated list of brokers; empty disables payment events.
	KafkaBrokers       string `mapstructure:"KAFKA_BROKERS"`
	PaymentEventsTopic string `mapstructure:"PAYMENT_EVENTS_TOPIC"`

	OTelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `mapstructure:"SERVICE_NAME"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STOREFRONT_API_URL", "http://localhost:3001")
	v.SetDefault("BACKEND_TIMEOUT", 15*time.Second)
	v.SetDefault("PIX_POLL_INTERVAL", 10*time.Second)
	v.SetDefault("PIX_TICK_INTERVAL", time.Second)
	v.SetDefault("PIX_FALLBACK_WINDOW", 30*time.Minute)
	v.SetDefault("PIX_RETAIN_TERMINAL", 10*time.Minute)
	v.SetDefault("PIX_PROVIDER", ProviderBackend)
	v.SetDefault("MERCADOPAGO_ACCESS_TOKEN", "")
	v.SetDefault("MERCADOPAGO_PAYER_EMAIL", "pagamentos@cervejaria.local")
	v.SetDefault("PAYMENT_LEDGER_ENABLED", false)
	v.SetDefault("PAYMENT_ATTEMPTS_TABLE", "payment_attempts")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("PAYMENT_EVENTS_TOPIC", "storefront-payment-events")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("SERVICE_NAME", "storefront-pix")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.PixProvider = strings.ToLower(strings.TrimSpace(c.PixProvider))
	switch c.PixProvider {
	case ProviderBackend, ProviderMercadoPago:
	default:
		return fmt.Errorf("config: PIX_PROVIDER must be %q or %q, got %q", ProviderBackend, ProviderMercadoPago, c.PixProvider)
	}
	if strings.TrimSpace(c.StorefrontAPIURL) == "" {
		return errors.New("config: STOREFRONT_API_URL must be set")
	}
	if c.PollInterval <= 0 || c.TickInterval <= 0 || c.FallbackWindow <= 0 {
		return errors.New("config: PIX_POLL_INTERVAL, PIX_TICK_INTERVAL and PIX_FALLBACK_WINDOW must be positive")
	}
	if c.BackendTimeout <= 0 {
		return errors.New("config: BACKEND_TIMEOUT must be positive")
	}
	return nil
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated
// config. An empty list disables the event publisher.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
