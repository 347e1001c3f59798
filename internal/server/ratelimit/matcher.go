package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the rate limit configuration for a request path and
// method. Exact path matches win over prefix matches; a config path ending in
// "/" matches every path under it (so "/interviews/" covers
// "/interviews/{id}/cancel"). Returns nil when no config applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check is never throttled.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	var prefix *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if prefix == nil && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			prefix = cfg
		}
	}
	return prefix
}
