package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *AppConfig, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	if err := num("PORT", &cfg.Port); err != nil {
		return err
	}
	str("NODE_ENV", &cfg.Env)
	str("APP_ENV", &cfg.Env)
	str("MONGODB_URI", &cfg.Mongo.URI)
	str("MONGODB_DATABASE", &cfg.Mongo.Database)
	str("REDIS_URL", &cfg.RedisURL)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("FRONTEND_URL", &cfg.FrontendURL)
	str("CONTACT_EMAIL", &cfg.ContactEmail)
	str("OWNER_NAME", &cfg.OwnerName)
	str("SMTP_HOST", &cfg.Mail.Host)
	if err := num("SMTP_PORT", &cfg.Mail.Port); err != nil {
		return err
	}
	str("SMTP_USER", &cfg.Mail.User)
	str("SMTP_PASS", &cfg.Mail.Pass)
	str("PORTFOLIO_LOG_DIR", &cfg.Paths.Logs)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.Split(v, ",")...)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok && strings.TrimSpace(v) != "" {
		cfg.TrustedProxies = append(cfg.TrustedProxies, strings.Split(v, ",")...)
	}
	// SMTP credentials in the environment switch mail on.
	if _, ok := lookup("SMTP_USER"); ok && cfg.Mail.User != "" {
		cfg.Mail.Enable = true
	}
	return nil
}
