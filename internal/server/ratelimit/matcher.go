package ratelimit

import (
	"strings"
)

// exemptPaths are never limited.
var exemptPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

var unlimited = &EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact matches win over prefix matches (e.g., "/templates/" matches "/templates/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if exemptPaths[path] {
		return unlimited
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && methodMatches(config.Method, method) {
			return config
		}
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if !methodMatches(config.Method, method) || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) && (best == nil || len(config.Path) > len(best.Path)) {
			best = config
		}
	}

	return best
}

func methodMatches(pattern, method string) bool {
	return pattern == "" || pattern == method
}
