package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.StorageDriver != DriverMongo || cfg.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "issue_tracker" || !cfg.Redis.Enabled || cfg.Admin.Username != "admin" {
		t.Errorf("unexpected nested defaults: %+v", cfg)
	}
	if cfg.Redis.PoolSize != 10 || cfg.Redis.Timeout != 3*time.Second {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"STORAGE_DRIVER": "sqlite",
		"SQLITE_PATH":    "/tmp/t.db",
		"REDIS_ENABLED":  "false",
		"TOKEN_TTL":      "1h",
		"REDIS_TIMEOUT":  "250ms",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != DriverSQLite || cfg.SQLite.Path != "/tmp/t.db" || cfg.Redis.Enabled || cfg.TokenTTL != time.Hour ||
		cfg.Redis.Timeout != 250*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {},
		"unknown driver":   {"JWT_SECRET": "s", "STORAGE_DRIVER": "oracle"},
		"postgres w/o url": {"JWT_SECRET": "s", "STORAGE_DRIVER": "postgres"},
	}
	for name, env := range cases {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
