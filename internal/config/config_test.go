package config

import (
	"testing"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply when only required values are set", func(t *testing.T) {
		t.Setenv("PASSPORTX_DELIVERY_ENDPOINT", "https://delivery.internal/notify")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "passportx-events", cfg.ServiceName)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.TelemetryEnabled)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 5*time.Minute, cfg.ClaimTTL)
		assert.Empty(t, cfg.Redis.Addr)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("PASSPORTX_DELIVERY_ENDPOINT", "https://delivery.internal/notify")
		t.Setenv("PASSPORTX_LOG_LEVEL", "debug")
		t.Setenv("PASSPORTX_PIPELINE_WORKERS", "8")
		t.Setenv("PASSPORTX_CLAIM_TTL", "30s")
		t.Setenv("PASSPORTX_REDIS_ADDR", "localhost:6379")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, 30*time.Second, cfg.ClaimTTL)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("missing delivery endpoint fails validation", func(t *testing.T) {
		_, err := Load()

		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("non-url delivery endpoint fails validation", func(t *testing.T) {
		t.Setenv("PASSPORTX_DELIVERY_ENDPOINT", "not a url")

		_, err := Load()

		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})
}
