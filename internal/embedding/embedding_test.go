package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/rag-pipeline/internal/cache"
)

func init() {
	retryBaseDelay = time.Millisecond
}

func errorCode(t *testing.T, err error) int {
	t.Helper()
	var e EmbeddingError
	require.True(t, errors.As(err, &e), "expected EmbeddingError, got %T: %v", err, err)
	return e.Code
}

// fakeVector 根据文本生成确定的向量，便于验证顺序
func fakeVector(text string) []float32 {
	return []float32{float32(len(text)), float32(text[0]), 1}
}

// TestClientCreation 测试客户端注册与创建
func TestClientCreation(t *testing.T) {
	t.Run("Ollama Client", func(t *testing.T) {
		client, err := NewClient("ollama", WithModel("mxbai-embed-large"))
		require.NoError(t, err)
		assert.Equal(t, "mxbai-embed-large", client.Name())
	})

	t.Run("OpenAI Without Key", func(t *testing.T) {
		_, err := NewClient("openai")
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidAPIKey, errorCode(t, err))
	})

	t.Run("OpenAI Default Model", func(t *testing.T) {
		client, err := NewClient("openai", WithAPIKey("sk-test"))
		require.NoError(t, err)
		assert.Equal(t, "text-embedding-3-small", client.Name())
	})

	t.Run("Invalid Provider", func(t *testing.T) {
		_, err := NewClient("invalid")
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, err))
	})

	t.Run("Config Values", func(t *testing.T) {
		config := DefaultConfig()
		assert.Equal(t, 16, config.BatchSize)
		assert.Equal(t, "nomic-embed-text", config.Model)
		assert.Equal(t, "http://localhost:11434", config.BaseURL)
	})
}

func newOllamaServer(t *testing.T, handler func(w http.ResponseWriter, model string, input []string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		handler(w, req.Model, req.Input)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOllamaClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Batch Embed", func(t *testing.T) {
		server := newOllamaServer(t, func(w http.ResponseWriter, model string, input []string) {
			assert.Equal(t, "nomic-embed-text", model)
			embeddings := make([][]float32, len(input))
			for i, text := range input {
				embeddings[i] = fakeVector(text)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"model": model, "embeddings": embeddings})
		})

		client, err := NewOllamaClient(WithBaseURL(server.URL))
		require.NoError(t, err)

		vectors, err := client.EmbedBatch(ctx, []string{"alpha", "be"})
		require.NoError(t, err)
		assert.Equal(t, [][]float32{fakeVector("alpha"), fakeVector("be")}, vectors)

		vector, err := client.Embed(ctx, "gamma")
		require.NoError(t, err)
		assert.Equal(t, fakeVector("gamma"), vector)
	})

	t.Run("Empty Input", func(t *testing.T) {
		client, err := NewOllamaClient()
		require.NoError(t, err)

		_, err = client.Embed(ctx, "")
		assert.Equal(t, ErrCodeEmptyInput, errorCode(t, err))

		vectors, err := client.EmbedBatch(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, vectors)
	})

	t.Run("Server Error Is Retried", func(t *testing.T) {
		var calls int32
		server := newOllamaServer(t, func(w http.ResponseWriter, model string, input []string) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"model is loading"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float32{{1, 2}}})
		})

		client, err := NewOllamaClient(WithBaseURL(server.URL), WithMaxRetries(3))
		require.NoError(t, err)

		vector, err := client.Embed(ctx, "retry me")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, vector)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("Bad Request Is Not Retried", func(t *testing.T) {
		var calls int32
		server := newOllamaServer(t, func(w http.ResponseWriter, model string, input []string) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"model not found"}`))
		})

		client, err := NewOllamaClient(WithBaseURL(server.URL), WithMaxRetries(3))
		require.NoError(t, err)

		_, err = client.Embed(ctx, "text")
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, err))
		assert.Contains(t, err.Error(), "model not found")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("Dimension Mismatch", func(t *testing.T) {
		server := newOllamaServer(t, func(w http.ResponseWriter, model string, input []string) {
			json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float32{{1, 2, 3}}})
		})

		client, err := NewOllamaClient(WithBaseURL(server.URL), WithDimensions(768))
		require.NoError(t, err)

		_, err = client.Embed(ctx, "text")
		assert.Equal(t, ErrCodeDimensionMismatch, errorCode(t, err))
	})

	t.Run("Count Mismatch", func(t *testing.T) {
		server := newOllamaServer(t, func(w http.ResponseWriter, model string, input []string) {
			json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float32{{1}}})
		})

		client, err := NewOllamaClient(WithBaseURL(server.URL), WithMaxRetries(0))
		require.NoError(t, err)

		_, err = client.EmbedBatch(ctx, []string{"a", "b"})
		assert.Equal(t, ErrCodeServerError, errorCode(t, err))
	})
}

func TestOpenAIClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Restores Order By Index", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req struct {
				Input []string `json:"input"`
				Model string   `json:"model"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "text-embedding-3-small", req.Model)

			// 倒序返回
			data := make([]map[string]interface{}, 0, len(req.Input))
			for i := len(req.Input) - 1; i >= 0; i-- {
				data = append(data, map[string]interface{}{
					"object":    "embedding",
					"index":     i,
					"embedding": fakeVector(req.Input[i]),
				})
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"object": "list",
				"model":  req.Model,
				"data":   data,
			})
		}))
		defer server.Close()

		client, err := NewOpenAIClient(WithAPIKey("sk-test"), WithBaseURL(server.URL+"/v1"))
		require.NoError(t, err)

		vectors, err := client.EmbedBatch(ctx, []string{"first", "second", "third"})
		require.NoError(t, err)
		assert.Equal(t, [][]float32{fakeVector("first"), fakeVector("second"), fakeVector("third")}, vectors)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		client, err := NewOpenAIClient(WithAPIKey("sk-bad"), WithBaseURL(server.URL+"/v1"))
		require.NoError(t, err)

		_, err = client.Embed(ctx, "text")
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidAPIKey, errorCode(t, err))
	})
}

// TestBatchProcessor 测试批处理器
func TestBatchProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("Batch Processing Keeps Order", func(t *testing.T) {
		client := NewMockClient(t)
		client.EXPECT().EmbedBatch(mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
				assert.LessOrEqual(t, len(texts), 2)
				out := make([][]float32, len(texts))
				for i, text := range texts {
					out[i] = fakeVector(text)
				}
				return out, nil
			}).Times(2) // 4个非空文本，每批2个

		processor := NewBatchProcessor(client, 2, 2)
		texts := []string{"hello", "world", "", "test", "  ", "example"}

		vectors, err := processor.Process(ctx, texts)
		require.NoError(t, err)
		require.Len(t, vectors, len(texts))

		for i, text := range texts {
			if strings.TrimSpace(text) == "" {
				assert.Nil(t, vectors[i], "blank text %d should map to nil", i)
				continue
			}
			assert.Equal(t, fakeVector(text), vectors[i])
		}
	})

	t.Run("Empty Texts", func(t *testing.T) {
		client := NewMockClient(t)
		processor := NewBatchProcessor(client, 2, 2)

		vectors, err := processor.Process(ctx, []string{})
		assert.NoError(t, err)
		assert.Empty(t, vectors)

		vectors, err = processor.Process(ctx, []string{"", " "})
		assert.NoError(t, err)
		assert.Equal(t, [][]float32{nil, nil}, vectors)
	})

	t.Run("Error Propagates", func(t *testing.T) {
		client := NewMockClient(t)
		boom := NewEmbeddingError(ErrCodeServerError, "boom")
		client.EXPECT().EmbedBatch(mock.Anything, mock.Anything).Return(nil, boom)

		processor := NewBatchProcessor(client, 10, 1)
		_, err := processor.Process(ctx, []string{"a", "b"})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		client := NewMockClient(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewBatchProcessor(client, 1, 1).Process(cctx, []string{"a"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCachedClient(t *testing.T) {
	ctx := context.Background()
	memCache, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)

	inner := NewMockClient(t)
	inner.EXPECT().Name().Return("nomic-embed-text")
	inner.EXPECT().Embed(mock.Anything, "question").Return([]float32{0.5, -1.25}, nil).Once()
	inner.EXPECT().EmbedBatch(mock.Anything, []string{"other"}).Return([][]float32{{3}}, nil).Once()

	client := NewCachedClient(inner, memCache, time.Minute, nil)
	assert.Equal(t, "nomic-embed-text", client.Name())

	first, err := client.Embed(ctx, "question")
	require.NoError(t, err)
	second, err := client.Embed(ctx, "question")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// question已缓存，只有other会请求底层客户端
	vectors, err := client.EmbedBatch(ctx, []string{"question", "other"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5, -1.25}, {3}}, vectors)
}

func TestVectorCodec(t *testing.T) {
	v := []float32{0, 1.5, -2.25, 3.4028235e38}
	decoded, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded)

	_, err = decodeVector("not base64!")
	assert.Error(t, err)
}
