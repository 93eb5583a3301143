package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"` // "development" | "production" | "test"
	Mongo          MongoConfig     `yaml:"mongo"`
	RedisURL       string          `yaml:"redis_url"`
	JWTSecret      string          `yaml:"jwt_secret"`
	JWTTTL         time.Duration   `yaml:"jwt_ttl"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	FrontendURL    string          `yaml:"frontend_url"`
	ContactEmail   string          `yaml:"contact_email"`
	OwnerName      string          `yaml:"owner_name"`
	BodyLimit      int64           `yaml:"body_limit"`
	Mail           MailConfig      `yaml:"mail"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Paths          PathsConfig     `yaml:"paths"`

	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is believed.
	// Empty means client IPs come from the connection address.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ResendKey string `yaml:"resend_key"`
}

type RateLimitConfig struct {
	GeneralMax    int           `yaml:"general_max"`
	GeneralWindow time.Duration `yaml:"general_window"`
	ContactMax    int           `yaml:"contact_max"`
	ContactWindow time.Duration `yaml:"contact_window"`
}

type PathsConfig struct {
	Logs string `yaml:"logs"`
}

// Load reads the YAML file at configPath over the defaults and applies environment overrides.
// A missing file is an error only when a non-default path was requested.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	normalize(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Mongo: MongoConfig{
			URI:      defaultMongoURI,
			Database: defaultMongoDatabase,
		},
		JWTTTL:    defaultJWTTTL,
		OwnerName: defaultOwnerName,
		BodyLimit: defaultBodyLimitBytes,
		Mail: MailConfig{
			Host: defaultSMTPHost,
			Port: defaultSMTPPort,
		},
		RateLimit: RateLimitConfig{
			GeneralMax:    defaultGeneralMax,
			GeneralWindow: defaultGeneralWindow,
			ContactMax:    defaultContactMax,
			ContactWindow: defaultContactWindow,
		},
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("invalid env %q, expected development, production or test", c.Env)
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo.database is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required in production")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("invalid jwt_ttl %s", c.JWTTTL)
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("invalid body_limit %d", c.BodyLimit)
	}
	rl := c.RateLimit
	if rl.GeneralMax < 1 || rl.ContactMax < 1 {
		return fmt.Errorf("rate_limit maxima must be positive (general %d, contact %d)", rl.GeneralMax, rl.ContactMax)
	}
	if rl.GeneralWindow <= 0 || rl.ContactWindow <= 0 {
		return fmt.Errorf("rate_limit windows must be positive (general %s, contact %s)", rl.GeneralWindow, rl.ContactWindow)
	}
	if c.Mail.Enable && c.Mail.ResendKey == "" && c.Mail.Host == "" {
		return errors.New("mail.host is required when mail is enabled")
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return c.Env == EnvDevelopment
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogDir resolves the configured log directory against the executable directory.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsSubdir)
}

// OwnerEmail is where contact notifications are delivered.
func (c *AppConfig) OwnerEmail() string {
	if c.ContactEmail != "" {
		return c.ContactEmail
	}
	if c.Mail.From != "" {
		return c.Mail.From
	}
	return c.Mail.User
}

// Origins is the CORS allow-list: local dev hosts, the frontend URL and any configured extras.
func (c *AppConfig) Origins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return append(origins, c.AllowedOrigins...)
}
