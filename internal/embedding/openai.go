package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIEmbeddingModel = "text-embedding-3-small"

// OpenAIClient OpenAI兼容接口的嵌入向量客户端
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient 创建一个新的OpenAI嵌入客户端
func NewOpenAIClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)
	if cfg.APIKey == "" {
		return nil, NewEmbeddingError(ErrCodeInvalidAPIKey, "OpenAI API key is required")
	}
	// 默认配置指向Ollama，这里换成OpenAI的默认值
	if cfg.Model == DefaultConfig().Model {
		cfg.Model = defaultOpenAIEmbeddingModel
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" && cfg.BaseURL != DefaultConfig().BaseURL {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Embed 对单个文本生成嵌入向量
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch 对多个文本生成嵌入向量，按响应中的index还原顺序
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := checkInputs(texts); err != nil {
		return nil, err
	}

	return withRetry(ctx, c.config.MaxRetries, func() ([][]float32, error) {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.config.Model),
		})
		if err != nil {
			return nil, classifyOpenAIError(ctx, err)
		}

		if len(resp.Data) != len(texts) {
			return nil, NewEmbeddingError(ErrCodeServerError,
				fmt.Sprintf("api returned %d embeddings for %d inputs", len(resp.Data), len(texts)))
		}

		vectors := make([][]float32, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(texts) {
				return nil, NewEmbeddingError(ErrCodeServerError, fmt.Sprintf("embedding index %d out of range", d.Index))
			}
			vectors[d.Index] = d.Embedding
		}
		if err := checkDimensions(vectors, c.config.Dimensions); err != nil {
			return nil, err
		}
		return vectors, nil
	})
}

// Name 返回模型名称
func (c *OpenAIClient) Name() string {
	return c.config.Model
}

func classifyOpenAIError(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyHTTPError(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyHTTPError(reqErr.HTTPStatusCode, reqErr.Error())
	}
	return classifyTransportError(ctx, err)
}

func init() {
	RegisterClient("openai", NewOpenAIClient)
}
