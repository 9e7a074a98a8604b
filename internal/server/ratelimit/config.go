package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a route.
type EndpointConfig struct {
	Pattern string        // Route pattern; "{name}" matches one segment, a trailing "/" matches any suffix
	Method  string        // HTTP method (GET, POST, etc.)
	Limit   int           // Maximum requests per window
	Window  time.Duration // Time window
	Burst   int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets untouched for this long are dropped by cleanup
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	revealLimit := getEnvInt("RATE_LIMIT_REVEAL_LIMIT", 30)
	revealWindow := getEnvDuration("RATE_LIMIT_REVEAL_WINDOW", time.Hour)

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: EndpointConfigs(revealLimit, revealWindow),
	}
}

// DefaultEndpointConfigs returns the route tiers with the default reveal budget.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(30, time.Hour)
}

// EndpointConfigs returns the route tiers with the given reveal budget.
func EndpointConfigs(revealLimit int, revealWindow time.Duration) []EndpointConfig {
	revealBurst := min(revealLimit, 5)
	return []EndpointConfig{
		// Tier 1: identity disclosure (strictest)
		{Pattern: "/jobs/{id}/candidates/{candidate_id}/reveal", Method: "POST", Limit: revealLimit, Window: revealWindow, Burst: revealBurst},

		// Tier 2: writes
		{Pattern: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/jobs/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/jobs/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/candidates/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/candidates/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 3: reads use the default limit
		// Tier 4: GET /health is unlimited, handled in MatchEndpoint
	}
}

func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
