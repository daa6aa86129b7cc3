package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minSecretLen = 16

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Account AccountConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Audit   AuditConfig
}

// AccountConfig locates the Account Service. Timeout 0 leaves upstream calls
// unbounded.
type AccountConfig struct {
	BaseURL string        `env:"ACCOUNT_API_URL, required"`
	Timeout time.Duration `env:"ACCOUNT_API_TIMEOUT, default=0s"`
}

// SessionConfig.Store selects the browser-session backend: an external Redis,
// an in-process Redis ("embedded") or a plain map ("memory").
type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET, required"`
	CookieName string        `env:"SESSION_COOKIE, default=portal_session"`
	TTL        time.Duration `env:"SESSION_TTL,    default=168h"`
	Store      string        `env:"SESSION_STORE,  default=redis"`
	Secure     bool          `env:"SESSION_SECURE, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// MongoConfig is optional: with an empty URI the audit trail goes to the log.
type MongoConfig struct {
	URI         string `env:"MONGO_URI"`
	Database    string `env:"MONGO_DB,            default=portal"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=20"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsProduction reports whether the portal runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if len(c.Session.Secret) < minSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLen))
	}
	switch c.Session.Store {
	case "redis", "embedded", "memory":
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be redis, embedded or memory, got %q", c.Session.Store))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Account.Timeout < 0 {
		errs = append(errs, errors.New("ACCOUNT_API_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}
