package transcription

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultGroqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqWhisperModel = "whisper-large-v3"
)

// GroqTranscriber 通过Groq的OpenAI兼容接口调用Whisper
type GroqTranscriber struct {
	client *openai.Client
	model  string
	cfg    *Config
}

// NewGroqTranscriber 创建远程转写器
func NewGroqTranscriber(opts ...Option) (*GroqTranscriber, error) {
	cfg := NewConfig(WithModel(defaultGroqWhisperModel), WithBaseURL(defaultGroqBaseURL))
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.APIKey == "" {
		return nil, NewTranscriptionError(ErrCodeInvalidAPIKey, "api key is required for remote transcription")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &GroqTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		cfg:    cfg,
	}, nil
}

// Name 返回模型名称
func (g *GroqTranscriber) Name() string {
	return g.model
}

// Transcribe 上传音频文件并返回转写结果
func (g *GroqTranscriber) Transcribe(ctx context.Context, path string, language string) (*Result, error) {
	if path == "" {
		return nil, NewTranscriptionError(ErrCodeEmptyInput, "audio path cannot be empty")
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    g.model,
		FilePath: path,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, NewTranscriptionError(ErrCodeAPIError,
			fmt.Sprintf("transcription request failed for %s: %v", path, err))
	}

	return &Result{
		Text:     resp.Text,
		Language: resp.Language,
	}, nil
}
