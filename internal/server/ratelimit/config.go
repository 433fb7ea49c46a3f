package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/cold-outreach/internal/config"
)

// GroupLLM is the shared budget for every endpoint that calls a model provider.
const GroupLLM = "llm"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" enables prefix matching)
	Method string        // HTTP method; empty matches any method
	Limit  int           // Maximum requests per window; zero or less is unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
	Group  string        // Endpoints in the same group share one bucket per client
}

// FromSettings builds the limiter configuration from application settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.LLMLimit, s.LLMWindow),
	}
}

// DefaultEndpointConfigs returns the endpoint limits. Every drafting call
// draws from the shared LLM budget; template writes get a moderate limit and
// reads fall through to the default.
func DefaultEndpointConfigs(llmLimit int, llmWindow time.Duration) []EndpointConfig {
	burst := max(1, llmLimit/10)
	llmEndpoint := func(path string) EndpointConfig {
		return EndpointConfig{
			Path:   path,
			Method: http.MethodPost,
			Limit:  llmLimit,
			Window: llmWindow,
			Burst:  burst,
			Group:  GroupLLM,
		}
	}

	return []EndpointConfig{
		llmEndpoint("/jobs/extract"),
		llmEndpoint("/resumes/analyze"),
		llmEndpoint("/companies/summarize"),
		llmEndpoint("/emails"),
		llmEndpoint("/emails/revise"),
		llmEndpoint("/emails/subject"),
		llmEndpoint("/emails/templatize"),

		{Path: "/templates", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/templates/", Method: http.MethodPut, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/templates/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/templates/", Method: http.MethodPost, Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// toSet normalizes a list of client IDs into a lookup set.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, item := range list {
		for _, ip := range strings.Split(item, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				result[ip] = true
			}
		}
	}
	return result
}
