package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestServer(t *testing.T, statusCode int, body any, inspect func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGroq(t *testing.T, srv *httptest.Server) *GroqClient {
	t.Helper()
	cfg := DefaultGroqConfig()
	cfg.BaseURL = srv.URL
	c, err := NewGroqClient(cfg, "test-key", srv.Client())
	require.NoError(t, err)
	return c
}

func TestGroqComplete_Success(t *testing.T) {
	var got chatRequest
	var auth string
	srv := makeTestServer(t, http.StatusOK, chatResponse{
		Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: `{"subject":"Hi"}`}}},
	}, func(r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
	})

	c := newTestGroq(t, srv)
	text, err := c.Complete(context.Background(), "write it", Options{Tier: TierLite, Temperature: 0.3})

	require.NoError(t, err)
	assert.Equal(t, `{"subject":"Hi"}`, text)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "write it", got.Messages[0].Content)
}

func TestGroqComplete_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"server error", http.StatusInternalServerError, map[string]string{"error": "boom"}},
		{"rate limited", http.StatusTooManyRequests, map[string]string{"error": "slow down"}},
		{"unauthorized", http.StatusUnauthorized, map[string]string{"error": "bad key"}},
		{"empty choices", http.StatusOK, chatResponse{}},
		{"error envelope", http.StatusOK, map[string]any{"error": map[string]string{"message": "quota", "type": "insufficient_quota"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := makeTestServer(t, tt.status, tt.body, nil)
			c := newTestGroq(t, srv)

			_, err := c.Complete(context.Background(), "prompt", Options{Tier: TierStandard})
			require.Error(t, err)

			var provErr *ProviderError
			require.True(t, errors.As(err, &provErr))
			assert.Equal(t, ProviderGroq, provErr.Provider)
		})
	}
}

func TestGroqComplete_CanceledContext(t *testing.T) {
	srv := makeTestServer(t, http.StatusOK, chatResponse{}, nil)
	c := newTestGroq(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "prompt", Options{Tier: TierLite})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewGroqClient_RequiresKey(t *testing.T) {
	_, err := NewGroqClient(nil, "", nil)
	assert.Error(t, err)
}

func TestNewSplitClient_NoKeys(t *testing.T) {
	_, err := NewSplitClient(context.Background(), nil, nil, Keys{})
	assert.Error(t, err)
}

func TestNewSplitClient_GroqOnly(t *testing.T) {
	c, err := NewSplitClient(context.Background(), nil, nil, Keys{Groq: "k"})
	require.NoError(t, err)
	_, ok := c.(*GroqClient)
	assert.True(t, ok)
	assert.NoError(t, c.Close())
}
