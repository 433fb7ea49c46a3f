// Package config loads server and CLI configuration from an optional config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/cold-outreach/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. OUTREACH_SERVER_PORT.
const EnvPrefix = "OUTREACH"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Templates TemplatesConfig `mapstructure:"templates"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LLMConfig holds provider keys and optional per-tier model overrides
// (keys "lite", "standard", "advanced"). Provider pins every call to "gemini"
// or "groq"; empty splits lite calls to Groq when both keys are set.
type LLMConfig struct {
	Provider     string            `mapstructure:"provider"`
	GeminiAPIKey string            `mapstructure:"gemini_api_key"`
	GroqAPIKey   string            `mapstructure:"groq_api_key"`
	GroqBaseURL  string            `mapstructure:"groq_base_url"`
	GeminiModels map[string]string `mapstructure:"gemini_models"`
	GroqModels   map[string]string `mapstructure:"groq_models"`
	Timeout      time.Duration     `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type FetchConfig struct {
	UseBrowser bool          `mapstructure:"use_browser"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	LLMLimit        int           `mapstructure:"llm_limit"`
	LLMWindow       time.Duration `mapstructure:"llm_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

type TemplatesConfig struct {
	SeedDefaults bool `mapstructure:"seed_defaults"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			CORSOrigin:   "*",
			WriteTimeout: 120 * time.Second,
		},
		LLM: LLMConfig{
			GroqBaseURL: llm.DefaultGroqBaseURL,
			Timeout:     60 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			LLMLimit:        60,
			LLMWindow:       time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Templates: TemplatesConfig{
			SeedDefaults: true,
		},
	}
}

// Load reads configuration from path (JSON or YAML, optional when empty) and
// the environment. Environment variables use EnvPrefix with "." replaced by
// "_"; GEMINI_API_KEY, GROQ_API_KEY, DATABASE_URL and PORT are also honored.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		if err := v.BindEnv(append([]string{key, envName(key)}, aliases...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envAliases lists the unprefixed variables accepted for some keys.
var envAliases = map[string][]string{
	"llm.gemini_api_key": {"GEMINI_API_KEY"},
	"llm.groq_api_key":   {"GROQ_API_KEY"},
	"database.url":       {"DATABASE_URL"},
	"server.port":        {"PORT"},
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.groq_base_url", d.LLM.GroqBaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)

	v.SetDefault("database.url", "")

	v.SetDefault("fetch.use_browser", d.Fetch.UseBrowser)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.default_limit", d.RateLimit.DefaultLimit)
	v.SetDefault("rate_limit.default_window", d.RateLimit.DefaultWindow)
	v.SetDefault("rate_limit.llm_limit", d.RateLimit.LLMLimit)
	v.SetDefault("rate_limit.llm_window", d.RateLimit.LLMWindow)
	v.SetDefault("rate_limit.cleanup_interval", d.RateLimit.CleanupInterval)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})

	v.SetDefault("templates.seed_defaults", d.Templates.SeedDefaults)
}

var (
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"json": true, "console": true}
)

// Validate checks value ranges. Missing API keys are not an error here;
// commands that call a provider check HasLLMKey.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("config error: 'logging.level' must be one of debug, info, warn, error"))
	}
	if !logFormats[c.Logging.Format] {
		errs = append(errs, fmt.Errorf("config error: 'logging.format' must be json or console"))
	}
	if c.LLM.Timeout < 0 || c.Fetch.Timeout < 0 || c.Server.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("config error: timeouts must be non-negative"))
	}
	if c.RateLimit.DefaultLimit < 0 || c.RateLimit.LLMLimit < 0 {
		errs = append(errs, fmt.Errorf("config error: rate limits must be non-negative"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultWindow <= 0 || c.RateLimit.LLMWindow <= 0) {
		errs = append(errs, fmt.Errorf("config error: rate limit windows must be positive"))
	}
	switch llm.Provider(c.LLM.Provider) {
	case "", llm.ProviderGemini, llm.ProviderGroq:
	default:
		errs = append(errs, fmt.Errorf("config error: 'llm.provider' must be gemini or groq, got %q", c.LLM.Provider))
	}
	for _, models := range []map[string]string{c.LLM.GeminiModels, c.LLM.GroqModels} {
		for tier := range models {
			if !validTier(tier) {
				errs = append(errs, fmt.Errorf("config error: unknown model tier %q", tier))
			}
		}
	}

	return errors.Join(errs...)
}

func validTier(tier string) bool {
	switch llm.ModelTier(tier) {
	case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		return true
	}
	return false
}

// HasLLMKey reports whether at least one provider key is configured.
func (c *Config) HasLLMKey() bool {
	return c.LLM.GeminiAPIKey != "" || c.LLM.GroqAPIKey != ""
}

// Keys returns the provider keys.
func (c *Config) Keys() llm.Keys {
	return llm.Keys{Gemini: c.LLM.GeminiAPIKey, Groq: c.LLM.GroqAPIKey}
}

// GeminiConfig returns the Gemini model mapping with overrides applied.
func (c *Config) GeminiConfig() *llm.Config {
	return c.providerConfig(llm.ProviderGemini)
}

// GroqConfig returns the Groq model mapping with overrides and base URL applied.
func (c *Config) GroqConfig() *llm.Config {
	return c.providerConfig(llm.ProviderGroq)
}

// PinnedProvider returns the configured provider and whether one is pinned.
func (c *Config) PinnedProvider() (*llm.Config, bool) {
	if c.LLM.Provider == "" {
		return nil, false
	}
	return c.providerConfig(llm.Provider(c.LLM.Provider)), true
}

func (c *Config) providerConfig(p llm.Provider) *llm.Config {
	cfg := llm.ConfigFor(p)
	if cfg.Provider == llm.ProviderGroq {
		cfg = applyModels(cfg, c.LLM.GroqModels)
		if c.LLM.GroqBaseURL != "" {
			cfg.BaseURL = c.LLM.GroqBaseURL
		}
	} else {
		cfg = applyModels(cfg, c.LLM.GeminiModels)
	}
	cfg.Timeout = c.LLM.Timeout
	return cfg
}

func applyModels(cfg *llm.Config, models map[string]string) *llm.Config {
	for tier, model := range models {
		if model != "" {
			cfg = cfg.WithModel(llm.ModelTier(tier), model)
		}
	}
	return cfg
}

// MergeWithDefaults returns a copy of c with empty fields filled from defaults.
// CLI flags are parsed into c and the loaded file/environment config is passed
// as defaults, so explicitly set flags win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.CORSOrigin == "" {
		result.Server.CORSOrigin = defaults.Server.CORSOrigin
	}
	if result.Server.WriteTimeout == 0 {
		result.Server.WriteTimeout = defaults.Server.WriteTimeout
	}

	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.GeminiAPIKey == "" {
		result.LLM.GeminiAPIKey = defaults.LLM.GeminiAPIKey
	}
	if result.LLM.GroqAPIKey == "" {
		result.LLM.GroqAPIKey = defaults.LLM.GroqAPIKey
	}
	if result.LLM.GroqBaseURL == "" {
		result.LLM.GroqBaseURL = defaults.LLM.GroqBaseURL
	}
	if result.LLM.GeminiModels == nil {
		result.LLM.GeminiModels = defaults.LLM.GeminiModels
	}
	if result.LLM.GroqModels == nil {
		result.LLM.GroqModels = defaults.LLM.GroqModels
	}
	if result.LLM.Timeout == 0 {
		result.LLM.Timeout = defaults.LLM.Timeout
	}

	if result.Database.URL == "" {
		result.Database.URL = defaults.Database.URL
	}
	if result.Fetch.Timeout == 0 {
		result.Fetch.Timeout = defaults.Fetch.Timeout
	}
	if result.Logging.Level == "" {
		result.Logging.Level = defaults.Logging.Level
	}
	if result.Logging.Format == "" {
		result.Logging.Format = defaults.Logging.Format
	}

	// Bools and the rate limit block cannot be told apart from unset, so they
	// come from defaults unless the flags layer overrides them explicitly.
	result.Fetch.UseBrowser = result.Fetch.UseBrowser || defaults.Fetch.UseBrowser
	result.RateLimit = defaults.RateLimit
	result.Templates = defaults.Templates

	return result
}
