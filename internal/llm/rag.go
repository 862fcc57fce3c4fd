package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultRAGTemplate 默认RAG提示词模板
// 包含变量：
// {{.Question}} - 用户问题
// {{.Context}} - 检索的上下文
const DefaultRAGTemplate = `Você é um assistente que responde a perguntas de forma útil.
Use apenas os seguintes trechos de contexto recuperado para responder à pergunta.
Se você não sabe a resposta, apenas diga que não sabe, não tente inventar uma resposta.
Use no máximo cinco sentenças. Mantenha a resposta concisa e responda no mesmo idioma da pergunta.

Contexto:
{{.Context}}
Pergunta: {{.Question}}
Resposta útil:`

// formatContext 格式化上下文内容
func formatContext(contexts []RetrievedContext) string {
	var formattedContext strings.Builder
	for i, c := range contexts {
		formattedContext.WriteString(fmt.Sprintf("【%d】%s\n\n", i+1, c.Text))
	}
	return formattedContext.String()
}

// RAGConfig 检索增强生成配置
type RAGConfig struct {
	// 提示词模板
	Template string
	// 最大Token数
	MaxTokens int
	// 温度参数
	Temperature float32
	// 超时时间
	Timeout time.Duration
}

// DefaultRAGConfig 默认RAG配置
func DefaultRAGConfig() *RAGConfig {
	return &RAGConfig{
		Template:    DefaultRAGTemplate,
		MaxTokens:   1024,
		Temperature: 0.2,
		Timeout:     60 * time.Second,
	}
}

// RAGService 实现检索增强生成服务
type RAGService struct {
	Client Client     // 大模型客户端
	config *RAGConfig // 配置，创建后只读
}

// NewRAG 创建新的检索增强生成服务
func NewRAG(client Client, opts ...RAGOption) *RAGService {
	cfg := DefaultRAGConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &RAGService{
		Client: client,
		config: cfg,
	}
}

// RAGOption RAG配置选项函数类型
type RAGOption func(*RAGConfig)

// WithRAGMaxTokens 设置最大Token数
func WithRAGMaxTokens(tokens int) RAGOption {
	return func(c *RAGConfig) {
		c.MaxTokens = tokens
	}
}

// WithRAGTemperature 设置温度参数
func WithRAGTemperature(temp float32) RAGOption {
	return func(c *RAGConfig) {
		c.Temperature = temp
	}
}

// WithRAGTimeout 设置请求超时时间
func WithRAGTimeout(timeout time.Duration) RAGOption {
	return func(c *RAGConfig) {
		c.Timeout = timeout
	}
}

// Answer 根据检索到的上下文生成回答
// 上下文为空时仍然调用模型，由提示词约束模型回答不知道
func (r *RAGService) Answer(ctx context.Context, question string, contexts []RetrievedContext) (*RAGResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, NewLLMError(ErrCodeEmptyPrompt, "question cannot be empty")
	}

	cfg := r.config

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	prompt := renderPrompt(cfg.Template, question, contexts)

	response, err := r.Client.Generate(
		ctx,
		prompt,
		WithGenerateMaxTokens(cfg.MaxTokens),
		WithGenerateTemperature(cfg.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	ragResponse := &RAGResponse{
		Answer: strings.TrimSpace(response.Text),
	}

	if len(contexts) > 0 {
		sources := make([]SourceReference, len(contexts))
		for i, c := range contexts {
			source, _ := c.Metadata["source"].(string)
			sources[i] = SourceReference{
				ID:       c.ID,
				Source:   source,
				Content:  c.Text,
				Score:    c.Score,
				Metadata: c.Metadata,
			}
		}
		ragResponse.Sources = sources
	}

	return ragResponse, nil
}

// renderPrompt 简单的模板替换
func renderPrompt(template, question string, contexts []RetrievedContext) string {
	prompt := strings.ReplaceAll(template, "{{.Question}}", question)
	prompt = strings.ReplaceAll(prompt, "{{.Context}}", formatContext(contexts))
	return prompt
}
