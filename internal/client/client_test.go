package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-preorder/internal/config"
	"campus-preorder/internal/logger"
	"campus-preorder/internal/model"
)

func TestToBraintreeAmount(t *testing.T) {
	tests := map[string]struct {
		amount   int64
		decimals int32
		want     string
	}{
		"rupiah":    {amount: 32900, decimals: 0, want: "32900"},
		"two place": {amount: 32900, decimals: 2, want: "329.00"},
		"cents":     {amount: 5, decimals: 2, want: "0.05"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			bt, major := toBraintreeAmount(tt.amount, tt.decimals)
			assert.Equal(t, tt.want, major.StringFixed(tt.decimals))
			assert.Equal(t, tt.amount, bt.Unscaled)
			assert.Equal(t, int(tt.decimals), bt.Scale)
		})
	}
}

func TestNewPaymentGateway_DemoWithoutMerchant(t *testing.T) {
	gw := NewPaymentGateway(config.Braintree{}, logger.Discard())
	require.IsType(t, &demoGateway{}, gw)

	id, err := gw.Charge(context.Background(), ChargeRequest{OrderNumber: "BG-1", Amount: 32900})
	require.NoError(t, err)
	assert.Contains(t, id, "demo-")
}

func TestNewPaymentGateway_Braintree(t *testing.T) {
	gw := NewPaymentGateway(config.Braintree{MerchantID: "m", PublicKey: "pub", PrivateKey: "priv"}, logger.Discard())
	require.IsType(t, &braintreeGateway{}, gw)

	_, err := gw.Charge(context.Background(), ChargeRequest{OrderNumber: "BG-1", Amount: 100})
	assert.ErrorContains(t, err, "nonce")
}

func TestInitDBClient_Sqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := InitDBClient(config.Database{Driver: "sqlite", URL: path}, logger.Discard())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&model.Order{}))
	assert.True(t, db.Migrator().HasTable(&model.OrphanOrder{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestInitDBClient_UnknownDriver(t *testing.T) {
	_, err := InitDBClient(config.Database{Driver: "oracle"}, logger.Discard())
	assert.ErrorContains(t, err, "unsupported database driver")
}
