// Package config loads the service configuration from the environment
// and validates it. Endpoints, credentials, and tuning values for the
// upstream webhook source are consumed as opaque configuration, never
// reinterpreted here.
package config

import (
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every environment variable, e.g.
// PASSPORTX_DELIVERY_ENDPOINT.
const envPrefix = "passportx"

// Redis holds the connection settings for the idempotency guard store.
// An empty Addr disables the durable guard.
type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Username string `envconfig:"REDIS_USERNAME"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Config is the full service configuration.
type Config struct {
	ServiceName      string        `envconfig:"SERVICE_NAME" default:"passportx-events"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	TelemetryEnabled bool          `envconfig:"TELEMETRY_ENABLED" default:"false"`
	DeliveryEndpoint string        `envconfig:"DELIVERY_ENDPOINT" validate:"required,url"`
	Workers          int           `envconfig:"PIPELINE_WORKERS" default:"4" validate:"gte=1"`
	ClaimTTL         time.Duration `envconfig:"CLAIM_TTL" default:"5m"`

	Redis Redis
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
