package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fyerfyer/rag-pipeline/config"
	"github.com/fyerfyer/rag-pipeline/internal/cache"
	"github.com/fyerfyer/rag-pipeline/internal/embedding"
	"github.com/fyerfyer/rag-pipeline/internal/llm"
	"github.com/fyerfyer/rag-pipeline/internal/transcription"
	"github.com/fyerfyer/rag-pipeline/internal/vectordb"
)

// Dependencies 流水线外部组件的构造函数
// 只有在配置校验通过后才会被调用
type Dependencies struct {
	NewEmbedder    func(cfg *config.Config) (embedding.Client, error)
	NewLLM         func(cfg *config.Config) (llm.Client, error)
	NewTranscriber func(cfg *config.Config) (transcription.Transcriber, error)
	NewExtractor   func(cfg *config.Config) (transcription.AudioExtractor, error)
	NewStore       func(cfg *config.Config) (vectordb.Repository, error)
	NewCache       func(cfg *config.Config) (cache.Cache, error) // 返回nil表示不使用缓存
}

// DefaultDependencies 返回生产环境使用的构造函数
// db 为共享的数据库连接，为空时sqlite向量库自行打开
func DefaultDependencies(db *gorm.DB, logger *logrus.Logger) Dependencies {
	return Dependencies{
		NewEmbedder: func(cfg *config.Config) (embedding.Client, error) {
			return embedding.NewClient(cfg.Embed.Provider,
				embedding.WithAPIKey(cfg.Embed.APIKey),
				embedding.WithBaseURL(cfg.Embed.BaseURL),
				embedding.WithModel(cfg.Embed.Model),
				embedding.WithDimensions(cfg.Embed.Dimensions),
				embedding.WithBatchSize(cfg.Embed.BatchSize),
			)
		},
		NewLLM: func(cfg *config.Config) (llm.Client, error) {
			return llm.NewClient("groq",
				llm.WithAPIKey(cfg.GroqAPIKey),
				llm.WithBaseURL(cfg.LLM.BaseURL),
				llm.WithModel(cfg.ModelName),
				llm.WithTemperature(cfg.LLM.Temperature),
				llm.WithMaxTokens(cfg.LLM.MaxTokens),
				llm.WithTimeout(cfg.LLM.Timeout),
				llm.WithRateLimit(cfg.LLM.RateLimit),
			)
		},
		NewTranscriber: func(cfg *config.Config) (transcription.Transcriber, error) {
			if cfg.UseLocalWhisper {
				return transcription.NewLocalWhisper(
					transcription.WithModel(cfg.WhisperModel),
					transcription.WithBinary(cfg.Media.WhisperBin),
				), nil
			}
			t, err := transcription.NewGroqTranscriber(
				transcription.WithAPIKey(cfg.GroqAPIKey),
				transcription.WithBaseURL(cfg.LLM.BaseURL),
				transcription.WithModel(cfg.Media.RemoteWhisperModel),
			)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
		NewExtractor: func(cfg *config.Config) (transcription.AudioExtractor, error) {
			return transcription.NewFFmpegExtractor(cfg.Media.FFmpegBin, cfg.Media.FFprobeBin), nil
		},
		NewStore: func(cfg *config.Config) (vectordb.Repository, error) {
			return vectordb.NewRepository(vectordb.Config{
				Type:         cfg.VectorDB.Type,
				Path:         cfg.QdrantPath,
				DSN:          cfg.Database.DSN,
				DistanceType: vectordb.Cosine,
				DB:           db,
				Logger:       logger,
			})
		},
		NewCache: func(cfg *config.Config) (cache.Cache, error) {
			if cfg.Cache.Type == "" || cfg.Cache.Type == "none" {
				return nil, nil
			}
			cacheCfg := cache.DefaultConfig()
			cacheCfg.Type = cfg.Cache.Type
			cacheCfg.RedisAddr = cfg.Cache.RedisAddr
			cacheCfg.RedisPassword = cfg.Cache.RedisPassword
			cacheCfg.RedisDB = cfg.Cache.RedisDB
			if cfg.Cache.TTL > 0 {
				cacheCfg.DefaultTTL = cfg.Cache.TTL
			}
			return cache.NewCache(cacheCfg)
		},
	}
}
