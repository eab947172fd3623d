package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one route. A Path ending in "/" covers every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int // defaults to Limit if 0
}

// Tier is a limit shared by a class of endpoints.
type Tier struct {
	Limit  int
	Window time.Duration
	Burst  int
}

// Default tiers. Browser-backed endpoints start a Chrome process per request.
var (
	DefaultBrowserTier = Tier{Limit: 30, Window: time.Minute, Burst: 5}
	DefaultPreviewTier = Tier{Limit: 120, Window: time.Minute, Burst: 20}
	DefaultWriteTier   = Tier{Limit: 100, Window: time.Minute, Burst: 10}
)

// LoadConfig reads the limiter settings from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	browser := tierFromEnv("RATE_LIMIT_BROWSER", DefaultBrowserTier)
	preview := tierFromEnv("RATE_LIMIT_PREVIEW", DefaultPreviewTier)
	write := tierFromEnv("RATE_LIMIT_WRITE", DefaultWriteTier)

	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       clientSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(browser, preview, write),
	}
}

// DefaultEndpointConfigs returns the route limits built from the default tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(DefaultBrowserTier, DefaultPreviewTier, DefaultWriteTier)
}

// endpointConfigs maps tiers onto routes. Estimated layout and reads fall back to the default limit.
func endpointConfigs(browser, preview, write Tier) []EndpointConfig {
	route := func(method, path string, t Tier) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: t.Limit, Window: t.Window, Burst: t.Burst}
	}
	return []EndpointConfig{
		route(http.MethodPost, "/export", browser),
		route(http.MethodPost, "/resumes/", browser), // stored exports
		route(http.MethodPost, "/preview", preview),

		route(http.MethodPost, "/resumes", write),
		route(http.MethodPut, "/resumes/", write),
		route(http.MethodDelete, "/resumes/", write),
	}
}

// tierFromEnv overrides a tier with <prefix>_LIMIT, <prefix>_WINDOW and <prefix>_BURST.
func tierFromEnv(prefix string, def Tier) Tier {
	return Tier{
		Limit:  envOr(prefix+"_LIMIT", def.Limit, strconv.Atoi),
		Window: envOr(prefix+"_WINDOW", def.Window, time.ParseDuration),
		Burst:  envOr(prefix+"_BURST", def.Burst, strconv.Atoi),
	}
}

// envOr parses an environment variable, keeping def when it is unset or malformed.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	v, err := parse(value)
	if err != nil {
		return def
	}
	return v
}

// clientSet parses a comma-separated list of client IDs.
func clientSet(list string) map[string]bool {
	out := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}
