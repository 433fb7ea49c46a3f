package llm

import (
	"context"
	"fmt"
)

// Options controls a single completion call
type Options struct {
	// Tier selects the model through the provider Config
	Tier ModelTier
	// Model overrides the tier mapping when set
	Model string
	// Temperature is clamped to [0, 1]
	Temperature float32
}

// Client is an abstraction over LLM providers.
// Complete sends one prompt and returns the raw text response.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// Keys holds provider API keys
type Keys struct {
	Gemini string
	Groq   string
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, keys Keys) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGroq:
		return NewGroqClient(config, keys.Groq, nil)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, keys.Gemini)
	default:
		return NewGeminiClient(ctx, config, keys.Gemini)
	}
}

// resolveModel picks the model for a call and clamps the temperature.
func resolveModel(config *Config, opts Options) (string, float32, error) {
	model := opts.Model
	if model == "" {
		model = config.GetModel(opts.Tier)
	}
	if model == "" {
		return "", 0, fmt.Errorf("no model configured for tier %s", opts.Tier)
	}
	return model, clampTemperature(opts.Temperature), nil
}

func clampTemperature(t float32) float32 {
	return max(0, min(t, 1))
}

// NewSplitClient builds the client used by the drafter. When both keys are present,
// lite-tier calls go to Groq and everything else to Gemini; with a single key that
// provider serves every tier. nil configs use the provider defaults.
func NewSplitClient(ctx context.Context, gemini, groq *Config, keys Keys) (Client, error) {
	if gemini == nil {
		gemini = DefaultGeminiConfig()
	}
	if groq == nil {
		groq = DefaultGroqConfig()
	}

	switch {
	case keys.Gemini != "" && keys.Groq != "":
		g, err := NewGeminiClient(ctx, gemini, keys.Gemini)
		if err != nil {
			return nil, err
		}
		q, err := NewGroqClient(groq, keys.Groq, nil)
		if err != nil {
			_ = g.Close()
			return nil, err
		}
		return NewRoutedClient(g, map[ModelTier]Client{TierLite: q}), nil
	case keys.Gemini != "":
		return NewGeminiClient(ctx, gemini, keys.Gemini)
	case keys.Groq != "":
		return NewGroqClient(groq, keys.Groq, nil)
	default:
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY or GROQ_API_KEY)")
	}
}
