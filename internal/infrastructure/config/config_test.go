package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverMongo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 || cfg.Auth.Issuer != "accounts-api" {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Mongo.Database != "accounts" || cfg.Redis.Addr != "localhost:6379" || !cfg.Redis.Enabled {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Seed.DefaultAccounts || cfg.Seed.AdminEmail != "admin@example.com" {
		t.Fatalf("unexpected seed defaults: %+v", cfg.Seed)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":            "s3cret",
		"TOKEN_TTL":             "15m",
		"STORE_DRIVER":          "memory",
		"BCRYPT_COST":           "4",
		"SEED_DEFAULT_ACCOUNTS": "true",
		"SEED_ADMIN_PASSWORD":   "pw",
		"REDIS_ENABLED":         "false",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute || cfg.StoreDriver != DriverMemory || cfg.Auth.BcryptCost != 4 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("expected redis disabled")
	}
	if !cfg.Seed.DefaultAccounts || cfg.Seed.AdminPassword != "pw" {
		t.Fatalf("seed overrides not applied: %+v", cfg.Seed)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_TTL":    "-1s",
		"STORE_DRIVER": "postgres",
		"BCRYPT_COST":  "99",
	}))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"JWT_SECRET", "TOKEN_TTL", "STORE_DRIVER", "BCRYPT_COST"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}
