package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		App:    AppConfig{Env: "local", Port: 8080},
		DB:     DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "vendors", SSLMode: ""},
		Redis:  RedisConfig{Host: "localhost", Port: 6379},
		Auth:   AuthConfig{JWTSecret: "secret"},
		Crypto: CryptoConfig{FieldKey: "local-dev-passphrase"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "issuer"
	c.Auth.JWTAudience = "aud"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_RequiresFieldEncryptionKey(t *testing.T) {
	c := validConfig()
	c.Crypto.FieldKey = ""
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error for missing FIELD_ENCRYPTION_KEY")
	}
	if !strings.Contains(err.Error(), "FIELD_ENCRYPTION_KEY") {
		t.Fatalf("error should name the missing key, got %v", err)
	}
}
