package app

import (
	"net/url"
	"strings"
)

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern reports whether host matches the given wildcard pattern.
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}

// originAllowed builds the CORS origin check. Entries are full origins
// ("https://example.com") or host patterns ("*.example.com", "localhost:*").
// In development every origin is accepted.
func originAllowed(origins []string, dev bool) func(origin string) bool {
	exact := make(map[string]struct{}, len(origins))
	var patterns []string
	for _, o := range origins {
		if strings.Contains(o, "*") {
			patterns = append(patterns, extractOriginHost(o))
			continue
		}
		exact[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(origin string) bool {
		if dev {
			return true
		}
		if _, ok := exact[origin]; ok {
			return true
		}
		host := extractOriginHost(origin)
		for _, p := range patterns {
			if matchOriginPattern(p, host) {
				return true
			}
		}
		return false
	}
}
