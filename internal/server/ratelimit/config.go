package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is the per-minute request budget of endpoints without their
// own configuration.
const DefaultLimit = 600

// EndpointConfig is the rate limit of one endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // Requests per window
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity; defaults to Limit
}

// LoadConfig reads rate limiting configuration from the environment.
// getenv is usually os.Getenv.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", DefaultLimit),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(env.int("RATE_LIMIT_EXPORT_LIMIT", 30)),
	}
}

// DefaultEndpointConfigs returns the endpoint limits. Exports drive a browser
// and get the strict budget; validation and HTML generation are moderate.
func DefaultEndpointConfigs(exportsPerMinute int) []EndpointConfig {
	burst := max(1, exportsPerMinute/10)
	return []EndpointConfig{
		// Browser-backed
		{Path: "/export/pdf", Method: "POST", Limit: exportsPerMinute, Window: time.Minute, Burst: burst},
		{Path: "/export/print", Method: "POST", Limit: exportsPerMinute, Window: time.Minute, Burst: burst},

		// CPU-bound
		{Path: "/export/html", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resume/validate", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/templates/validate", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/templates/recommend", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Stored PDFs
		{Path: "/exports/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

type envReader func(string) string

func (e envReader) int(key string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return def
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
