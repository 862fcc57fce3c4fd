package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// retryBaseDelay 首次重试前的等待时间，之后指数增长
var retryBaseDelay = time.Second

// GroqClient 通过OpenAI兼容接口调用Groq托管的大模型
type GroqClient struct {
	client  *openai.Client
	config  *Config
	limiter *rate.Limiter // 为nil时不限速
}

// NewGroqClient 创建一个新的Groq客户端
func NewGroqClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)
	if cfg.APIKey == "" {
		return nil, NewLLMError(ErrCodeInvalidAPIKey, "api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	c := &GroqClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
	if cfg.RateLimit > 0 {
		// 允许一分钟的配额作为突发量
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), cfg.RateLimit)
	}
	return c, nil
}

// Generate 将提示词作为单条用户消息发送
func (c *GroqClient) Generate(ctx context.Context, prompt string, options ...GenerateOption) (*Response, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, NewLLMError(ErrCodeEmptyPrompt, ErrMsgEmptyPrompt)
	}

	opts := &GenerateOptions{}
	for _, opt := range options {
		opt(opts)
	}

	messages := make([]Message, 0, 2)
	if opts.System != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: opts.System})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})

	req := c.baseRequest(messages)
	applySampling(&req, opts.MaxTokens, opts.Temperature, opts.TopP)
	req.Stop = opts.Stop

	return c.complete(ctx, req, messages)
}

// Name 返回模型名称
func (c *GroqClient) Name() string {
	return c.config.Model
}

func (c *GroqClient) baseRequest(messages []Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
			Name:    m.Name,
		}
	}
	return openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    msgs,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		TopP:        c.config.TopP,
	}
}

func applySampling(req *openai.ChatCompletionRequest, maxTokens *int, temperature, topP *float32) {
	if maxTokens != nil {
		req.MaxTokens = *maxTokens
	}
	if temperature != nil {
		req.Temperature = *temperature
	}
	if topP != nil {
		req.TopP = *topP
	}
}

// complete 发送请求，对可重试错误指数退避
func (c *GroqClient) complete(ctx context.Context, req openai.ChatCompletionRequest, history []Message) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, classifyError(ctx, err)
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return c.toResponse(resp, history)
		}

		lastErr = classifyError(ctx, err)
		if !IsRetryable(lastErr) || attempt == c.config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, classifyError(ctx, ctx.Err())
		case <-time.After(retryBaseDelay * time.Duration(1<<attempt)):
		}
	}
	return nil, lastErr
}

func (c *GroqClient) toResponse(resp openai.ChatCompletionResponse, history []Message) (*Response, error) {
	if len(resp.Choices) == 0 {
		return nil, NewLLMError(ErrCodeEmptyResponse, ErrMsgEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return nil, NewLLMError(ErrCodeContentFilter, ErrMsgContentFilter)
	}

	model := resp.Model
	if model == "" {
		model = c.config.Model
	}

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleAssistant, Content: choice.Message.Content})

	return &Response{
		Text:         choice.Message.Content,
		Messages:     messages,
		TokenCount:   resp.Usage.TotalTokens,
		ModelName:    model,
		FinishReason: string(choice.FinishReason),
		FinishTime:   time.Now(),
	}, nil
}

func init() {
	RegisterClient("groq", NewGroqClient)
	// 其他OpenAI兼容服务共用同一实现
	RegisterClient("openai", NewGroqClient)
}
