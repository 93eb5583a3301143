package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	defaultPort           = 5000
	defaultEnv            = EnvDevelopment
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDatabase  = "portfolio"
	defaultJWTTTL         = 7 * 24 * time.Hour
	defaultDevJWTSecret   = "dev-secret-change-in-production"
	defaultOwnerName      = "Portfolio Owner"
	defaultSMTPHost       = "smtp.gmail.com"
	defaultSMTPPort       = 587
	defaultGeneralMax     = 100
	defaultGeneralWindow  = 15 * time.Minute
	defaultContactMax     = 5
	defaultContactWindow  = time.Hour
	defaultLogsSubdir     = "logs"
	defaultBodyLimitBytes = 1 << 20
)
