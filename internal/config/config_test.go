package config

import (
	"errors"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"HIREBOOK_HTTP_ADDR", "HIREBOOK_DB_DSN", "HIREBOOK_STORE_TIMEOUT",
		"HIREBOOK_UNIQUE_VEHICLE_NO", "HIREBOOK_CORS_ORIGINS", "HIREBOOK_REDIS_ADDR",
		"HIREBOOK_GOOGLE_API_KEY", "HIREBOOK_PAYEE_CURRENCY",
	} {
		t.Setenv(k, "")
	}
	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:8080" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Store.RequestTimeout != 5*time.Second || !cfg.Store.UniqueVehicleNo {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Redis.Addr != "" || cfg.Google.APIKey != "" {
		t.Fatalf("optional collaborators should be off by default: %+v", cfg)
	}
	if cfg.Payee.Currency != "Rs" {
		t.Fatalf("currency = %q", cfg.Payee.Currency)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HIREBOOK_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("HIREBOOK_STORE_TIMEOUT", "750ms")
	t.Setenv("HIREBOOK_UNIQUE_VEHICLE_NO", "false")
	t.Setenv("HIREBOOK_CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:5173 ,")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9090" || cfg.Store.RequestTimeout != 750*time.Millisecond || cfg.Store.UniqueVehicleNo {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || cfg.HTTP.CORSOrigins[1] != "http://127.0.0.1:5173" {
		t.Fatalf("origins = %v", cfg.HTTP.CORSOrigins)
	}
}

func TestFromEnvBadValues(t *testing.T) {
	t.Setenv("HIREBOOK_STORE_TIMEOUT", "soon")
	t.Setenv("HIREBOOK_UNIQUE_VEHICLE_NO", "maybe")

	_, err := fromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	for _, key := range []string{"HIREBOOK_STORE_TIMEOUT", "HIREBOOK_UNIQUE_VEHICLE_NO"} {
		if !containsField(err, key) {
			t.Fatalf("error %q does not mention %s", err, key)
		}
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Store.RequestTimeout = -time.Second
	err := cfg.Validate()
	for _, key := range []string{"HIREBOOK_HTTP_ADDR", "HIREBOOK_DB_DSN", "HIREBOOK_STORE_TIMEOUT"} {
		if !containsField(err, key) {
			t.Fatalf("Validate() = %v, missing %s", err, key)
		}
	}
}

func containsField(err error, field string) bool {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		var ce *ConfigError
		return errors.As(err, &ce) && ce.Field == field
	}
	for _, e := range joined.Unwrap() {
		var ce *ConfigError
		if errors.As(e, &ce) && ce.Field == field {
			return true
		}
	}
	return false
}
