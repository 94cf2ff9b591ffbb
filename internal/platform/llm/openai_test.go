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

func openAIServer(t *testing.T, status int, content string) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "slow down", "type": "rate_limit_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
		})
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return p
}

var titleSchema = &Schema{
	Name: "test-title",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"title": map[string]any{"type": "string"}},
		"required":             []string{"title"},
		"additionalProperties": false,
	},
}

func TestOpenAIProviderText(t *testing.T) {
	p := openAIServer(t, http.StatusOK, "Slide 1: Intro")
	resp, err := p.Generate(context.Background(), UserRequest("system", "user"))
	require.NoError(t, err)

	assert.Equal(t, "Slide 1: Intro", resp.Text)
	assert.Nil(t, resp.JSON)
	assert.Equal(t, 30, resp.Usage.InputTokens)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)
}

func TestOpenAIProviderSchema(t *testing.T) {
	p := openAIServer(t, http.StatusOK, `{"title":"Photosynthesis"}`)
	req := UserRequest("system", "user")
	req.Schema = titleSchema

	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Photosynthesis"}`, string(resp.JSON))
}

func TestOpenAIProviderSchemaMismatch(t *testing.T) {
	p := openAIServer(t, http.StatusOK, `{"heading":"x"}`)
	req := UserRequest("system", "user")
	req.Schema = titleSchema

	_, err := p.Generate(context.Background(), req)
	var invalid *ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid), "got %v", err)
}

func TestOpenAIProviderRateLimit(t *testing.T) {
	p := openAIServer(t, http.StatusTooManyRequests, "")
	_, err := p.Generate(context.Background(), UserRequest("system", "user"))

	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "got %v", err)
}

func TestOpenAIProviderServerError(t *testing.T) {
	p := openAIServer(t, http.StatusBadGateway, "")
	_, err := p.Generate(context.Background(), UserRequest("system", "user"))

	var unavailable *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable), "got %v", err)
}

func TestNewProvidersRequireKeys(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
	_, err = NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
	_, err = NewOpenRouterProvider(OpenRouterConfig{})
	assert.Error(t, err)
}

func TestOpenRouterDefaultsBaseURL(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "openai/gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.ModelID())
}
