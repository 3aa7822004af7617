package config

import (
	"fmt"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database `envPrefix:"DATABASE_"`
	Redis       Redis    `envPrefix:"REDIS_"`

	Auth       Auth       `envPrefix:"AUTH_"`
	Checkout   Checkout   `envPrefix:"CHECKOUT_"`
	Reconciler Reconciler `envPrefix:"RECONCILER_"`
	BrainTree  Braintree  `envPrefix:"BRAINTREE_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsDevelopment() bool {
	return e.Name == "development"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

func (h HTTPServer) Addr() string {
	return h.Host + ":" + h.Port
}

// Database selects the gorm dialector. URL is a DSN for postgres/mysql and a
// file path for sqlite.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	URL    string `env:"URL" envDefault:"campus-preorder.db"`
}

// Redis is optional: an empty Addr keeps carts and submit locks in process.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	CartTTL  time.Duration `env:"CART_TTL" envDefault:"24h"`
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Auth struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	RoleLookupTimeout time.Duration `env:"ROLE_LOOKUP_TIMEOUT" envDefault:"3s"`
}

type Checkout struct {
	Timezone          string        `env:"TIMEZONE" envDefault:"Asia/Jakarta"`
	SubmitLockTTL     time.Duration `env:"SUBMIT_LOCK_TTL" envDefault:"30s"`
	SeedReferenceData bool          `env:"SEED_REFERENCE_DATA" envDefault:"true"`
}

func (c Checkout) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load checkout timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type Reconciler struct {
	Interval  time.Duration `env:"INTERVAL" envDefault:"1m"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"50"`
}

func (r Reconciler) Validate() error {
	if r.Interval <= 0 {
		return fmt.Errorf("RECONCILER_INTERVAL must be positive, got %s", r.Interval)
	}
	if r.BatchSize <= 0 {
		return fmt.Errorf("RECONCILER_BATCH_SIZE must be positive, got %d", r.BatchSize)
	}
	return nil
}

// Braintree enables card charges for instant pay. Without a merchant id the
// demo gateway approves every charge.
type Braintree struct {
	Environment      string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID       string `env:"MERCHANT_ID"`
	PublicKey        string `env:"PUBLIC_KEY"`
	PrivateKey       string `env:"PRIVATE_KEY"`
	CurrencyDecimals int32  `env:"CURRENCY_DECIMALS" envDefault:"0"`
}

func (b Braintree) Enabled() bool {
	return b.MerchantID != ""
}
