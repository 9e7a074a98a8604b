package ratelimit

import (
	"strings"
)

var unlimited = EndpointConfig{Pattern: "/health", Method: "GET"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Segment patterns ("/jobs/{id}/close") are tried before prefix patterns ("/jobs/").
// Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Pattern && method == unlimited.Method {
		u := unlimited
		return &u
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && !strings.HasSuffix(config.Pattern, "/") && matchSegments(config.Pattern, path) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Pattern, "/") && strings.HasPrefix(path, config.Pattern) {
			return config
		}
	}

	return nil
}

// matchSegments reports whether path has the same segments as pattern,
// treating "{...}" pattern segments as wildcards.
func matchSegments(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i, p := range ps {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if p != xs[i] {
			return false
		}
	}
	return true
}
