package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited routes never consume tokens
var unlimited = map[string]bool{
	http.MethodGet + " /health":  true,
	http.MethodGet + " /presets": true,
}

// MatchEndpoint returns the configuration for a request, or nil when the default limit applies.
// Exact paths win over prefixes; among prefixes the longest wins. Unlimited routes return a
// config with a zero Limit.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
