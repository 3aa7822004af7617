package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.True(t, cfg.Environment.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.BrainTree.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Auth.RoleLookupTimeout)
	assert.Equal(t, 30*time.Second, cfg.Checkout.SubmitLockTTL)
	assert.Equal(t, time.Minute, cfg.Reconciler.Interval)
	assert.Equal(t, 50, cfg.Reconciler.BatchSize)
}

func TestParse_Prefixes(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/canteen")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_CART_TTL", "2h")
	t.Setenv("CHECKOUT_TIMEZONE", "UTC")
	t.Setenv("BRAINTREE_MERCHANT_ID", "merchant-1")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.False(t, cfg.Environment.IsDevelopment())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://app:secret@db:5432/canteen", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.Redis.CartTTL)
	assert.True(t, cfg.BrainTree.Enabled())

	loc, err := cfg.Checkout.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestCheckoutLocation_Invalid(t *testing.T) {
	_, err := Checkout{Timezone: "Mars/Olympus"}.Location()
	require.Error(t, err)
}

func TestReconciler_Validate(t *testing.T) {
	require.NoError(t, Reconciler{Interval: time.Minute, BatchSize: 50}.Validate())

	for name, value := range map[string]string{"zero": "0s", "negative": "-1m"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("RECONCILER_INTERVAL", value)
			cfg := &Config{}
			require.NoError(t, env.Parse(cfg))
			assert.ErrorContains(t, cfg.Reconciler.Validate(), "RECONCILER_INTERVAL")
		})
	}

	assert.ErrorContains(t, Reconciler{Interval: time.Minute}.Validate(), "RECONCILER_BATCH_SIZE")
}
