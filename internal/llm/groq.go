package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultGroqBaseURL is the OpenAI-compatible endpoint root for Groq.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

const defaultGroqTimeout = 60 * time.Second

// GroqClient implements Client against an OpenAI-compatible /chat/completions endpoint.
type GroqClient struct {
	baseURL    string
	apiKey     string
	config     *Config
	httpClient *http.Client
}

// NewGroqClient creates a client targeting config.BaseURL (DefaultGroqBaseURL when empty).
// A nil httpClient gets a client with config.Timeout, or 60s when unset.
func NewGroqClient(config *Config, apiKey string, httpClient *http.Client) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	if config == nil {
		config = DefaultGroqConfig()
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaultGroqTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GroqClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		config:     config,
		httpClient: httpClient,
	}, nil
}

// chatRequest mirrors the OpenAI /chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the relevant fields of the OpenAI response.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends prompt as a single user message and returns the first choice's content.
func (c *GroqClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	model, temperature, err := resolveModel(c.config, opts)
	if err != nil {
		return "", c.fail(err.Error(), nil)
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", c.fail("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", c.fail("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.fail("request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail("read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.fail(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes))), nil)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", c.fail("parse response envelope", err)
	}
	if chatResp.Error != nil {
		return "", c.fail(fmt.Sprintf("%s: %s", chatResp.Error.Type, chatResp.Error.Message), nil)
	}
	if len(chatResp.Choices) == 0 {
		return "", c.fail("no choices in response", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Close is a no-op; the HTTP client is shared.
func (c *GroqClient) Close() error {
	return nil
}

func (c *GroqClient) fail(message string, cause error) error {
	return &ProviderError{Provider: ProviderGroq, Message: message, Cause: cause}
}
