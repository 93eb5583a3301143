package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.TrustedProxies = normalizeProxies(cfg.TrustedProxies)
	cfg.ContactEmail = strings.TrimSpace(cfg.ContactEmail)
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	if strings.TrimSpace(cfg.OwnerName) == "" {
		cfg.OwnerName = defaultOwnerName
	}
	if cfg.JWTSecret == "" && cfg.Env != EnvProduction {
		cfg.JWTSecret = defaultDevJWTSecret
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	seen := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// normalizeProxies trims entries and drops blanks. No entries yields nil.
func normalizeProxies(proxies []string) []string {
	var out []string
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}
