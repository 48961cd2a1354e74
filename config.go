package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/stemstr/skillgate/internal/gateway"
	"github.com/stemstr/skillgate/internal/storage/blob"
)

const (
	defaultPort                   = 3000
	defaultFacilitatorURL         = "https://facilitator.cronoslabs.org/v2/x402"
	defaultAsset                  = "0xc01efAaF7C5C61bEbFAeb358E1161b537b8bC0e0" // USDC.e on Cronos
	defaultNetwork                = "cronos-testnet"
	defaultPaymentAmount          = 1000000 // 1 USDC.e, 6 decimals
	defaultStoreRegion            = "auto"
	defaultSignedURLExpirySeconds = 86400
)

type Config struct {
	// API settings
	Port           int      `yaml:"port" envconfig:"PORT"`
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`

	// Payment settings
	PaymentEnforced   bool   `yaml:"payment_enforced" envconfig:"PAYMENT_ENFORCED" default:"true"`
	FacilitatorURL    string `yaml:"facilitator_url" envconfig:"FACILITATOR_URL"`
	PayTo             string `yaml:"seller_wallet" envconfig:"SELLER_WALLET"`
	Asset             string `yaml:"asset" envconfig:"USDCE_CONTRACT"`
	Network           string `yaml:"network" envconfig:"CRONOS_NETWORK"`
	PaymentAmount     uint64 `yaml:"payment_amount" envconfig:"PAYMENT_AMOUNT"`
	MaxTimeoutSeconds int    `yaml:"max_timeout_seconds" envconfig:"MAX_TIMEOUT_SECONDS"`

	// Object store settings
	StoreAccountID         string `yaml:"r2_account_id" envconfig:"R2_ACCOUNT_ID"`
	StoreEndpoint          string `yaml:"store_endpoint" envconfig:"STORE_ENDPOINT"`
	StoreRegion            string `yaml:"store_region" envconfig:"STORE_REGION"`
	StoreAccessKeyID       string `yaml:"r2_access_key_id" envconfig:"R2_ACCESS_KEY_ID"`
	StoreSecretAccessKey   string `yaml:"r2_secret_access_key" envconfig:"R2_SECRET_ACCESS_KEY"`
	StoreBucket            string `yaml:"r2_bucket_name" envconfig:"R2_BUCKET_NAME"`
	StorePathStyle         bool   `yaml:"store_path_style" envconfig:"STORE_PATH_STYLE"`
	SignedURLExpirySeconds int    `yaml:"signed_url_expiry_seconds" envconfig:"SIGNED_URL_EXPIRY_SECONDS"`

	// Receipt journal. Disabled when driver is empty.
	ReceiptsDriver string `yaml:"receipts_driver" envconfig:"RECEIPTS_DRIVER"`
	ReceiptsDSN    string `yaml:"receipts_dsn" envconfig:"RECEIPTS_DSN"`

	// Purchase announcements on nostr. Disabled when nsec is empty.
	NotifierNsec   string   `yaml:"notifier_nsec" envconfig:"NOTIFIER_NSEC"`
	NotifierRelays []string `yaml:"notifier_relays" envconfig:"NOTIFIER_RELAYS"`
}

// Load Config from a yaml file at path.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Keys missing from the file keep these values.
	c.PaymentEnforced = true

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return err
	}

	c.applyDefaults()
	return c.Validate()
}

// Load Config from the environment.
func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}

	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.FacilitatorURL == "" {
		c.FacilitatorURL = defaultFacilitatorURL
	}
	if c.Asset == "" {
		c.Asset = defaultAsset
	}
	if c.Network == "" {
		c.Network = defaultNetwork
	}
	if c.PaymentAmount == 0 {
		c.PaymentAmount = defaultPaymentAmount
	}
	if c.MaxTimeoutSeconds == 0 {
		c.MaxTimeoutSeconds = gateway.DefaultMaxTimeoutSeconds
	}
	if c.StoreRegion == "" {
		c.StoreRegion = defaultStoreRegion
	}
	if c.StoreEndpoint == "" && c.StoreAccountID != "" {
		c.StoreEndpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.StoreAccountID)
	}
	if c.SignedURLExpirySeconds == 0 {
		c.SignedURLExpirySeconds = defaultSignedURLExpirySeconds
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.StoreBucket == "" {
		errs = append(errs, errors.New("must set r2_bucket_name"))
	}
	if c.SignedURLExpirySeconds < 0 {
		errs = append(errs, errors.New("signed_url_expiry_seconds must be positive"))
	}
	if c.PaymentEnforced {
		if c.FacilitatorURL == "" {
			errs = append(errs, errors.New("must set facilitator_url when payment is enforced"))
		}
		if c.PayTo == "" {
			errs = append(errs, errors.New("must set seller_wallet when payment is enforced"))
		}
	}
	switch c.ReceiptsDriver {
	case "", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown receipts_driver %q. must be 'sqlite' or 'postgres'", c.ReceiptsDriver))
	}
	if c.ReceiptsDriver != "" && c.ReceiptsDSN == "" {
		errs = append(errs, errors.New("must set receipts_dsn"))
	}
	return errors.Join(errs...)
}

func (c *Config) SignedURLExpiry() time.Duration {
	return time.Duration(c.SignedURLExpirySeconds) * time.Second
}

func (c *Config) GatewayConfig() gateway.Config {
	return gateway.Config{
		PaymentEnforced:   c.PaymentEnforced,
		Network:           c.Network,
		PayTo:             c.PayTo,
		Asset:             c.Asset,
		Amount:            c.PaymentAmount,
		MaxTimeoutSeconds: c.MaxTimeoutSeconds,
	}
}

func (c *Config) BlobConfig() blob.Config {
	return blob.Config{
		Endpoint:        c.StoreEndpoint,
		Region:          c.StoreRegion,
		AccessKeyID:     c.StoreAccessKeyID,
		SecretAccessKey: c.StoreSecretAccessKey,
		Bucket:          c.StoreBucket,
		UsePathStyle:    c.StorePathStyle,
	}
}
