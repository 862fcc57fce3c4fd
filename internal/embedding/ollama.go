package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	ollama "github.com/ollama/ollama/api"
)

// OllamaClient 通过Ollama服务生成向量
type OllamaClient struct {
	client *ollama.Client
	config *Config
}

// NewOllamaClient 创建Ollama嵌入客户端
func NewOllamaClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeInvalidRequest, fmt.Sprintf("invalid base URL %q: %v", cfg.BaseURL, err))
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	return &OllamaClient{
		client: ollama.NewClient(baseURL, hc),
		config: cfg,
	}, nil
}

// Embed 生成单条文本向量
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch 一次请求生成多条文本向量
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := checkInputs(texts); err != nil {
		return nil, err
	}

	return withRetry(ctx, c.config.MaxRetries, func() ([][]float32, error) {
		resp, err := c.client.Embed(ctx, &ollama.EmbedRequest{
			Model: c.config.Model,
			Input: texts,
		})
		if err != nil {
			var statusErr ollama.StatusError
			if errors.As(err, &statusErr) {
				return nil, classifyHTTPError(statusErr.StatusCode, statusErr.ErrorMessage)
			}
			return nil, classifyTransportError(ctx, err)
		}

		if len(resp.Embeddings) != len(texts) {
			return nil, NewEmbeddingError(ErrCodeServerError,
				fmt.Sprintf("ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts)))
		}
		if err := checkDimensions(resp.Embeddings, c.config.Dimensions); err != nil {
			return nil, err
		}
		return resp.Embeddings, nil
	})
}

// Name 返回模型名称
func (c *OllamaClient) Name() string {
	return c.config.Model
}

func init() {
	RegisterClient("ollama", NewOllamaClient)
}
