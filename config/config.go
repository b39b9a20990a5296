package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Rates     RatesConfig     `mapstructure:"rates"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"` // apply embedded migrations on start
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MigrationURL returns the DSN in the form the pgx/v5 migrate driver expects.
func (d DatabaseConfig) MigrationURL() string {
	return "pgx5" + strings.TrimPrefix(d.DSN(), "postgres")
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Key and address derivation strategies.
const (
	StrategySHA256   = "sha256"
	StrategyArgon2id = "argon2id"
	StrategyBase58   = "base58"
)

// LedgerConfig holds the settlement parameters and secrets.
type LedgerConfig struct {
	AdminKey          string `mapstructure:"admin_key"`
	APIKeySecret      string `mapstructure:"api_key_secret"`
	AddressSecret     string `mapstructure:"address_secret"`
	InitialBalance    int64  `mapstructure:"initial_balance"` // satoshi
	WalletLimit       int    `mapstructure:"wallet_limit"`
	CommissionPercent string `mapstructure:"commission_percent"`
	APIKeyStrategy    string `mapstructure:"api_key_strategy"` // sha256, argon2id
	AddressStrategy   string `mapstructure:"address_strategy"` // sha256, base58
}

// Commission parses CommissionPercent.
func (l LedgerConfig) Commission() (decimal.Decimal, error) {
	return decimal.NewFromString(l.CommissionPercent)
}

// RatesConfig configures the BTC/USD providers.
type RatesConfig struct {
	Providers         []string      `mapstructure:"providers"` // tried in order
	Timeout           time.Duration `mapstructure:"timeout"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate rejects configurations the ledger cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Ledger.AdminKey == "" {
		errs = append(errs, errors.New("ledger.admin_key is required"))
	}
	if c.Ledger.APIKeySecret == "" {
		errs = append(errs, errors.New("ledger.api_key_secret is required"))
	}
	if c.Ledger.AddressSecret == "" {
		errs = append(errs, errors.New("ledger.address_secret is required"))
	}
	if c.Ledger.WalletLimit <= 0 {
		errs = append(errs, errors.New("ledger.wallet_limit must be positive"))
	}
	if c.Ledger.InitialBalance < 0 {
		errs = append(errs, errors.New("ledger.initial_balance must not be negative"))
	}
	if pct, err := c.Ledger.Commission(); err != nil || pct.IsNegative() {
		errs = append(errs, fmt.Errorf("ledger.commission_percent %q is not a non-negative number", c.Ledger.CommissionPercent))
	}
	switch c.Ledger.APIKeyStrategy {
	case StrategySHA256, StrategyArgon2id:
	default:
		errs = append(errs, fmt.Errorf("ledger.api_key_strategy %q is unknown", c.Ledger.APIKeyStrategy))
	}
	switch c.Ledger.AddressStrategy {
	case StrategySHA256, StrategyBase58:
	default:
		errs = append(errs, fmt.Errorf("ledger.address_strategy %q is unknown", c.Ledger.AddressStrategy))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q is unknown", c.Server.Mode))
	}
	if len(c.Rates.Providers) == 0 {
		errs = append(errs, errors.New("rates.providers must name at least one provider"))
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is unknown", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: LEDGER_.
// Nested keys use underscore: LEDGER_DATABASE_HOST, LEDGER_LEDGER_ADMIN_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("ledger.admin_key", "")
	v.SetDefault("ledger.api_key_secret", "")
	v.SetDefault("ledger.address_secret", "")
	v.SetDefault("ledger.initial_balance", 100_000_000)
	v.SetDefault("ledger.wallet_limit", 3)
	v.SetDefault("ledger.commission_percent", "1.5")
	v.SetDefault("ledger.api_key_strategy", StrategySHA256)
	v.SetDefault("ledger.address_strategy", StrategySHA256)
	v.SetDefault("rates.providers", []string{"bitfinex", "kraken"})
	v.SetDefault("rates.timeout", "5s")
	v.SetDefault("rates.cache_ttl", "30s")
	v.SetDefault("rates.requests_per_second", 1.0)
	v.SetDefault("ratelimit.enabled", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// LEDGER_DATABASE_HOST -> database.host
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine, env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
