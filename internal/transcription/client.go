package transcription

import (
	"context"
	"os/exec"
	"time"
)

// Result 语音转写结果
type Result struct {
	Text     string // 转写文本
	Language string // 识别出的语言，无法识别时为空
}

// Transcriber 语音转文字接口
type Transcriber interface {
	// Transcribe 转写整个音频文件
	// language 为空时由模型自动识别语言
	Transcribe(ctx context.Context, path string, language string) (*Result, error)

	// Name 返回模型名称
	Name() string
}

// AudioExtractor 视频音轨提取接口
type AudioExtractor interface {
	// HasAudio 检查视频是否包含音轨
	HasAudio(ctx context.Context, videoPath string) (bool, error)

	// ExtractAudio 将视频音轨导出为wav文件
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
}

// Config 转写客户端配置
type Config struct {
	Model      string        // 模型名称或大小（tiny/base/small...）
	Binary     string        // 本地可执行文件
	APIKey     string        // 远程API密钥
	BaseURL    string        // 远程API地址
	Timeout    time.Duration // 单次转写超时，0表示不限制
	WorkingDir string        // 临时输出目录，空表示系统临时目录
}

// Option 转写客户端配置选项
type Option func(*Config)

// WithModel 设置模型
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithBinary 设置本地可执行文件路径
func WithBinary(bin string) Option {
	return func(c *Config) {
		c.Binary = bin
	}
}

// WithAPIKey 设置API密钥
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL 设置API地址
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout 设置超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithWorkingDir 设置临时输出目录
func WithWorkingDir(dir string) Option {
	return func(c *Config) {
		c.WorkingDir = dir
	}
}

// NewConfig 创建配置并应用选项
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Model:  "base",
		Binary: "whisper",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// commandRunner 执行外部命令，返回标准输出
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// execRunner 使用os/exec执行命令
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return out, &commandError{err: err, stderr: string(exitErr.Stderr)}
		}
		return out, err
	}
	return out, nil
}

// commandError 外部命令失败，附带标准错误输出
type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string {
	return e.err.Error() + ": " + e.stderr
}

func (e *commandError) Unwrap() error {
	return e.err
}
