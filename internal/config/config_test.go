package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "NODE_ENV", "APP_ENV", "MONGODB_URI", "MONGODB_DATABASE", "REDIS_URL", "JWT_SECRET",
		"FRONTEND_URL", "CONTACT_EMAIL", "OWNER_NAME", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
		"PORTFOLIO_LOG_DIR", "ALLOWED_ORIGINS", "TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: 8081
env: production
jwt_secret: s3cret
mongo:
  uri: mongodb://db:27017
  database: site
frontend_url: https://portfolio.example.com/
rate_limit:
  general_max: 50
  general_window: 10m
  contact_max: 3
  contact_window: 30m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8081 || !cfg.IsProduction() {
		t.Fatalf("unexpected port/env %d %s", cfg.Port, cfg.Env)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" || cfg.Mongo.Database != "site" {
		t.Fatalf("unexpected mongo config %+v", cfg.Mongo)
	}
	if cfg.RateLimit.GeneralWindow != 10*time.Minute || cfg.RateLimit.ContactMax != 3 {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
	if cfg.FrontendURL != "https://portfolio.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.FrontendURL)
	}
	if cfg.JWTTTL != defaultJWTTTL {
		t.Fatalf("expected default jwt ttl, got %s", cfg.JWTTTL)
	}
	if cfg.TrustedProxies != nil {
		t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 8081\nnot_a_key: true\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 8081\n")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://env:27017")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, ,172.16.0.0/12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected env port, got %d", cfg.Port)
	}
	if cfg.Mongo.URI != "mongodb://env:27017" {
		t.Fatalf("expected env mongo uri, got %s", cfg.Mongo.URI)
	}
	if !cfg.Mail.Enable || cfg.OwnerEmail() != "me@example.com" {
		t.Fatalf("expected smtp user to enable mail, got %+v", cfg.Mail)
	}
	origins := strings.Join(cfg.Origins(), ",")
	if !strings.Contains(origins, "https://b.example.com") || !strings.Contains(origins, "http://localhost:3000") {
		t.Fatalf("unexpected origins %s", origins)
	}
	if got := strings.Join(cfg.TrustedProxies, ","); got != "10.0.0.1,172.16.0.0/12" {
		t.Fatalf("unexpected trusted proxies %q", got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "port: 70000\n"},
		{"bad env", "env: staging\n"},
		{"production without secret", "env: production\n"},
		{"zero contact max", "rate_limit:\n  contact_max: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("expected %q to fail validation", tt.body)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected explicit missing path to fail")
	}
}
