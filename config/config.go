package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 配置相关的错误
var (
	// ErrMissingAPIKey 缺少GROQ_API_KEY
	ErrMissingAPIKey = errors.New("GROQ_API_KEY is not set, check your .env file")
	// ErrInvalidValue 配置值不合法
	ErrInvalidValue = errors.New("invalid configuration value")
)

// ConfigError 配置错误
// Field 为对应的环境变量名
type ConfigError struct {
	Field string
	Err   error
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %v", e.Field, e.Err)
}

// Unwrap 支持errors.Is/As
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config 应用程序配置结构体
// 加载后不再修改，显式传递给各个组件
type Config struct {
	GroqAPIKey      string `mapstructure:"groq_api_key" validate:"required"`
	QdrantPath      string `mapstructure:"qdrant_path" validate:"required"`      // 向量库存储目录
	CollectionName  string `mapstructure:"collection_name" validate:"required"`  // 集合名称
	DataDir         string `mapstructure:"data_dir" validate:"required"`         // 上传文件目录
	ModelName       string `mapstructure:"model_name" validate:"required"`       // 大模型名称
	ChunkSize       int    `mapstructure:"chunk_size" validate:"gt=0"`           // 分块大小
	ChunkOverlap    int    `mapstructure:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
	MaxFileSizeMB   int    `mapstructure:"max_file_size_mb" validate:"gt=0"`     // 单个文件上传上限
	WhisperModel    string `mapstructure:"whisper_model" validate:"oneof=tiny tiny.en base base.en small small.en medium medium.en large large-v2 large-v3 turbo"`
	UseLocalWhisper bool   `mapstructure:"use_local_whisper"` // 本地whisper或远程API

	LLM      LLMConfig      `mapstructure:"llm"`
	Embed    EmbedConfig    `mapstructure:"embed"`
	VectorDB VectorDBConfig `mapstructure:"vectordb"`
	Media    MediaConfig    `mapstructure:"media"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// LLMConfig 大语言模型配置
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit   int           `mapstructure:"rate_limit" validate:"gte=0"` // 每分钟请求数，0表示不限制
}

// EmbedConfig 向量嵌入模型配置
type EmbedConfig struct {
	Provider   string `mapstructure:"provider" validate:"oneof=ollama openai"`
	Model      string `mapstructure:"model" validate:"required"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	BatchSize  int    `mapstructure:"batch_size" validate:"gt=0"`
	Workers    int    `mapstructure:"workers" validate:"gt=0"`
	Dimensions int    `mapstructure:"dimensions" validate:"gte=0"`
}

// VectorDBConfig 向量数据库配置
type VectorDBConfig struct {
	Type string `mapstructure:"type" validate:"oneof=sqlite memory"`
	TopK int    `mapstructure:"top_k" validate:"gt=0"` // 检索返回的片段数量
}

// MediaConfig 音视频处理配置
type MediaConfig struct {
	WhisperBin         string `mapstructure:"whisper_bin"`
	RemoteWhisperModel string `mapstructure:"remote_whisper_model"`
	FFmpegBin          string `mapstructure:"ffmpeg_bin"`
	FFprobeBin         string `mapstructure:"ffprobe_bin"`
	VideoLanguage      string `mapstructure:"video_language"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Type          string        `mapstructure:"type" validate:"oneof=none memory redis"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// QueueConfig 异步任务队列配置
type QueueConfig struct {
	Enable        bool   `mapstructure:"enable"`
	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Enable true"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Concurrency   int    `mapstructure:"concurrency" validate:"gt=0"`
}

// ArchiveConfig 上传文件归档（MinIO）配置
type ArchiveConfig struct {
	Enable    bool   `mapstructure:"enable"`
	Endpoint  string `mapstructure:"endpoint" validate:"required_if=Enable true"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // 为空时使用 QDRANT_PATH/ingest.db
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	File       string `mapstructure:"file"` // 为空时只输出到标准输出
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load 从.env文件、可选的配置文件和环境变量加载配置
// 环境变量优先级最高，嵌套键用下划线连接，例如 LLM_BASE_URL
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(cfg.QdrantPath, "ingest.db")
	}

	return &cfg, nil
}

// loadDotEnv 加载.env文件，文件不存在时忽略
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// Validate 校验配置
// 缺少API密钥时返回包装了ErrMissingAPIKey的ConfigError
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Err: ErrInvalidValue}
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Field: "config", Err: err}
	}

	// 优先报告API密钥缺失
	for _, fe := range verrs {
		if fe.StructField() == "GroqAPIKey" {
			return &ConfigError{Field: "GROQ_API_KEY", Err: ErrMissingAPIKey}
		}
	}

	fe := verrs[0]
	return &ConfigError{
		Field: envName(fe.Namespace()),
		Err:   fmt.Errorf("%w: %v fails %q", ErrInvalidValue, fe.Value(), fe.Tag()),
	}
}

// MaxFileSizeBytes 返回单个文件上传上限（字节）
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// envName 将校验器命名空间转换为环境变量名
// 例如 Config.llm.base_url -> LLM_BASE_URL
func envName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToUpper(strings.Join(parts, "_"))
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("groq_api_key", "")
	v.SetDefault("qdrant_path", "qdrant_db")
	v.SetDefault("collection_name", "rag_documents")
	v.SetDefault("data_dir", "data")
	v.SetDefault("model_name", "llama-3.3-70b-versatile")
	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 200)
	v.SetDefault("max_file_size_mb", 200)
	v.SetDefault("whisper_model", "base")
	v.SetDefault("use_local_whisper", true)

	// LLM默认配置（Groq的OpenAI兼容接口）
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.rate_limit", 30)

	// Embedding默认配置
	v.SetDefault("embed.provider", "ollama")
	v.SetDefault("embed.model", "nomic-embed-text")
	v.SetDefault("embed.base_url", "http://localhost:11434")
	v.SetDefault("embed.api_key", "")
	v.SetDefault("embed.batch_size", 16)
	v.SetDefault("embed.workers", 4)
	v.SetDefault("embed.dimensions", 0)

	// 向量数据库默认配置
	v.SetDefault("vectordb.type", "sqlite")
	v.SetDefault("vectordb.top_k", 4)

	// 音视频默认配置
	v.SetDefault("media.whisper_bin", "whisper")
	v.SetDefault("media.remote_whisper_model", "whisper-large-v3")
	v.SetDefault("media.ffmpeg_bin", "ffmpeg")
	v.SetDefault("media.ffprobe_bin", "ffprobe")
	v.SetDefault("media.video_language", "pt")

	// 缓存默认配置
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "24h")

	// 队列默认配置
	v.SetDefault("queue.enable", false)
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_password", "")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.concurrency", 2)

	// 归档默认配置
	v.SetDefault("archive.enable", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.bucket", "rag-uploads")
	v.SetDefault("archive.use_ssl", false)

	v.SetDefault("database.dsn", "")

	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}
