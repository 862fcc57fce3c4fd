package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	retryBaseDelay = time.Millisecond
}

// chatRequest 测试服务器解析的请求体
type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "llama-3.3-70b-versatile",
		"choices": []map[string]interface{}{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
	})
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": message, "type": "invalid_request_error"},
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base := []Option{WithAPIKey("gsk-test"), WithBaseURL(srv.URL + "/v1"), WithRateLimit(0)}
	client, err := NewClient("groq", append(base, opts...)...)
	require.NoError(t, err)
	return client
}

func TestGroqGenerate(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, "Olá!")
	})

	resp, err := client.Generate(context.Background(), "Diga olá",
		WithGenerateSystem("seja breve"),
		WithGenerateMaxTokens(64),
		WithGenerateTemperature(0.5))
	require.NoError(t, err)

	assert.Equal(t, "Olá!", resp.Text)
	assert.Equal(t, 20, resp.TokenCount)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, ModelLlama33Versatile, resp.ModelName)
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, RoleAssistant, resp.Messages[2].Role)

	assert.Equal(t, ModelLlama33Versatile, got.Model)
	assert.Equal(t, 64, got.MaxTokens)
	assert.InDelta(t, 0.5, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "seja breve", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Diga olá", got.Messages[1].Content)
}

func TestGroqGenerateUsesConfigDefaults(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, "resposta")
	}, WithModel(ModelLlama31Instant), WithMaxTokens(256), WithTemperature(0.3))

	resp, err := client.Generate(context.Background(), "tudo bem?")
	require.NoError(t, err)

	assert.Equal(t, "resposta", resp.Text)
	assert.Equal(t, ModelLlama31Instant, got.Model)
	assert.Equal(t, 256, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, RoleAssistant, resp.Messages[1].Role)
	assert.Equal(t, ModelLlama31Instant, client.Name())
}

func TestGroqRetriesRateLimit(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeAPIError(w, http.StatusTooManyRequests, "slow down")
			return
		}
		writeCompletion(w, "ok")
	}, WithMaxRetries(3))

	resp, err := client.Generate(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGroqErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewGroqClient()
		var llmErr LLMError
		require.True(t, errors.As(err, &llmErr))
		assert.Equal(t, ErrCodeInvalidAPIKey, llmErr.Code)
	})

	t.Run("unauthorized is not retried", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeAPIError(w, http.StatusUnauthorized, "bad key")
		}, WithMaxRetries(3))

		_, err := client.Generate(context.Background(), "ping")
		var llmErr LLMError
		require.True(t, errors.As(err, &llmErr))
		assert.Equal(t, ErrCodeInvalidAPIKey, llmErr.Code)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("server error exhausts retries", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeAPIError(w, http.StatusInternalServerError, "boom")
		}, WithMaxRetries(2))

		_, err := client.Generate(context.Background(), "ping")
		var llmErr LLMError
		require.True(t, errors.As(err, &llmErr))
		assert.Equal(t, ErrCodeServerError, llmErr.Code)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("empty prompt", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not be sent")
		})
		_, err := client.Generate(context.Background(), "   ")
		var llmErr LLMError
		require.True(t, errors.As(err, &llmErr))
		assert.Equal(t, ErrCodeEmptyPrompt, llmErr.Code)
	})

	t.Run("no choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
		})
		_, err := client.Generate(context.Background(), "ping")
		var llmErr LLMError
		require.True(t, errors.As(err, &llmErr))
		assert.Equal(t, ErrCodeEmptyResponse, llmErr.Code)
	})

	t.Run("unknown client type", func(t *testing.T) {
		_, err := NewClient("tongyi")
		var llmErr LLMError
		require.True(t, errors.As(err, &llmErr))
		assert.Equal(t, ErrCodeInvalidRequest, llmErr.Code)
	})
}

func TestGroqRateLimiter(t *testing.T) {
	client, err := NewGroqClient(WithAPIKey("gsk-test"))
	require.NoError(t, err)
	limiter := client.(*GroqClient).limiter
	require.NotNil(t, limiter)
	assert.Equal(t, 30, limiter.Burst())

	client, err = NewGroqClient(WithAPIKey("gsk-test"), WithRateLimit(0))
	require.NoError(t, err)
	assert.Nil(t, client.(*GroqClient).limiter)
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewConfig(WithBaseURL(""), WithModel(""))
	assert.Equal(t, DefaultGroqBaseURL, cfg.BaseURL)
	assert.Equal(t, ModelLlama33Versatile, cfg.Model)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-6)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}
