package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverPostgres {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.SigningMethod != "HS256" || cfg.Auth.BcryptCost != 12 {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be disabled by default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET is required") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "short",
	}))
	if err == nil || !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Fatalf("expected short secret error, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         secret,
		"JWT_TTL":            "90m",
		"JWT_SIGNING_METHOD": "hs512",
		"STORE_DRIVER":       "memory",
		"REDIS_ADDR":         "localhost:6379",
		"HASH_WORKERS":       "3",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.TokenTTL != 90*time.Minute || cfg.Auth.SigningMethod != "HS512" || cfg.Auth.HashWorkers != 3 {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.StoreDriver != DriverMemory || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestValidate_RejectsUnknownValues(t *testing.T) {
	cfg := &Config{
		StoreDriver: "sqlite",
		Auth:        AuthConfig{JWTSecret: secret, SigningMethod: "RS256", TokenTTL: time.Hour},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"JWT_SIGNING_METHOD", "STORE_DRIVER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %v", want, err)
		}
	}
}

func TestLoadPostgres_WithoutSecret(t *testing.T) {
	cfg, err := loadPostgres(context.Background(), envconfig.MapLookuper(map[string]string{
		"POSTGRES_DSN": "postgres://u:p@db:5432/inv",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DSN != "postgres://u:p@db:5432/inv" || cfg.MaxOpenConns != 20 {
		t.Fatalf("unexpected postgres config: %+v", cfg)
	}
}
