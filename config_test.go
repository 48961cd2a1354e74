package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
port: 9000
seller_wallet: "0xseller"
payment_amount: 2500000
r2_account_id: acct123
r2_bucket_name: skills
allowed_origins:
  - https://app.example
`)

	var cfg Config
	err := cfg.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.PaymentEnforced)
	assert.Equal(t, "0xseller", cfg.PayTo)
	assert.Equal(t, uint64(2500000), cfg.PaymentAmount)
	assert.Equal(t, "https://acct123.r2.cloudflarestorage.com", cfg.StoreEndpoint)
	assert.Equal(t, "auto", cfg.StoreRegion)
	assert.Equal(t, []string{"https://app.example"}, cfg.AllowedOrigins)
	assert.Equal(t, defaultFacilitatorURL, cfg.FacilitatorURL)
	assert.Equal(t, defaultNetwork, cfg.Network)
	assert.Equal(t, defaultAsset, cfg.Asset)
	assert.Equal(t, 300, cfg.MaxTimeoutSeconds)
	assert.Equal(t, 24*time.Hour, cfg.SignedURLExpiry())
}

func TestLoadConfigFreeMode(t *testing.T) {
	path := writeConfigFile(t, `
payment_enforced: false
r2_bucket_name: skills
`)

	var cfg Config
	require.NoError(t, cfg.Load(path))
	assert.False(t, cfg.PaymentEnforced)
	assert.False(t, cfg.GatewayConfig().PaymentEnforced)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SELLER_WALLET", "0xseller")
	t.Setenv("CRONOS_NETWORK", "cronos-mainnet")
	t.Setenv("PAYMENT_AMOUNT", "42")
	t.Setenv("R2_BUCKET_NAME", "skills")
	t.Setenv("STORE_ENDPOINT", "http://localhost:9000")
	t.Setenv("SIGNED_URL_EXPIRY_SECONDS", "600")

	var cfg Config
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.PaymentEnforced)
	assert.Equal(t, "cronos-mainnet", cfg.Network)
	assert.Equal(t, uint64(42), cfg.PaymentAmount)
	assert.Equal(t, "http://localhost:9000", cfg.StoreEndpoint)
	assert.Equal(t, 10*time.Minute, cfg.SignedURLExpiry())

	gw := cfg.GatewayConfig()
	assert.Equal(t, uint64(42), gw.Amount)
	assert.Equal(t, "0xseller", gw.PayTo)

	bc := cfg.BlobConfig()
	assert.Equal(t, "skills", bc.Bucket)
	assert.Equal(t, "http://localhost:9000", bc.Endpoint)
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"paid ok", Config{PaymentEnforced: true, FacilitatorURL: "https://f", PayTo: "0x1", StoreBucket: "b"}, false},
		{"free ok without wallet", Config{StoreBucket: "b"}, false},
		{"missing bucket", Config{PayTo: "0x1", FacilitatorURL: "https://f"}, true},
		{"paid missing wallet", Config{PaymentEnforced: true, FacilitatorURL: "https://f", StoreBucket: "b"}, true},
		{"unknown receipts driver", Config{StoreBucket: "b", ReceiptsDriver: "mysql", ReceiptsDSN: "x"}, true},
		{"receipts missing dsn", Config{StoreBucket: "b", ReceiptsDriver: "sqlite"}, true},
		{"receipts ok", Config{StoreBucket: "b", ReceiptsDriver: "sqlite", ReceiptsDSN: "r.db"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
