package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Fatalf("port: got %d want 8080", cfg.Port)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("driver: got %q want %q", cfg.StoreDriver, DriverMemory)
	}
	if cfg.JWTTTL != 7*24*time.Hour {
		t.Fatalf("ttl: got %s want 168h", cfg.JWTTTL)
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("dev should get a built-in secret")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Fatalf("port: got %d", cfg.Port)
	}
	if cfg.StoreDriver != DriverMongo {
		t.Fatalf("driver should be lower-cased, got %q", cfg.StoreDriver)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("ttl: got %s", cfg.JWTTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins: got %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.AuthRateLimit != 20 {
		t.Fatalf("bad int should fall back to default, got %d", cfg.AuthRateLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Env:         "dev",
		Port:        8080,
		StoreDriver: DriverMemory,
		JWTSecret:   devJWTSecret,
		JWTTTL:      time.Hour,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "unknown_driver", mutate: func(c *Config) { c.StoreDriver = "sqlite" }, wantErr: true},
		{name: "bad_port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "zero_ttl", mutate: func(c *Config) { c.JWTTTL = 0 }, wantErr: true},
		{name: "missing_secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "prod_with_dev_secret", mutate: func(c *Config) { c.Env = "prod" }, wantErr: true},
		{name: "prod_short_secret", mutate: func(c *Config) { c.Env = "prod"; c.JWTSecret = "short" }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
