package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// StorageDriver selects the persistence backend: mongo, postgres or sqlite.
	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Otel     OtelConfig

	// SeedFile is an optional YAML file of users created at startup.
	SeedFile string `env:"SEED_FILE"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=issue_tracker"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=tracker.db"`
}

type RedisConfig struct {
	Enabled        bool          `env:"REDIS_ENABLED,   default=true"`
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB             int           `env:"REDIS_DB,        default=0"`
	PoolSize       int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout        time.Duration `env:"REDIS_TIMEOUT,   default=3s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@localhost"`
	Password string `env:"ADMIN_PASSWORD"`
}

type OtelConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=issue-tracker"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.StorageDriver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("config: MONGO_URI is required for the mongo driver")
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
