package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.JWTExpiryHours != 24 {
		t.Errorf("JWTExpiryHours = %d, want 24", cfg.JWTExpiryHours)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/clinic", JWTExpiryHours: 24}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when JWT_SECRET missing")
	}

	cfg = &Config{JWTSecret: "x", JWTExpiryHours: 24}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when DATABASE_URL missing")
	}
}

func TestAllowedOriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://app.clinic.sa, https://admin.clinic.sa")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "https://app.clinic.sa" || got[1] != "https://admin.clinic.sa" {
		t.Errorf("CORSOrigins = %v", got)
	}
}

func TestCORSOriginsDefaultsToWildcard(t *testing.T) {
	cfg := &Config{}
	got := cfg.CORSOrigins()
	if len(got) != 1 || got[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", got)
	}
}
