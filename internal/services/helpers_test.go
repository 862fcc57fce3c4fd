package services

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/rag-pipeline/config"
	"github.com/fyerfyer/rag-pipeline/internal/cache"
	"github.com/fyerfyer/rag-pipeline/internal/embedding"
	"github.com/fyerfyer/rag-pipeline/internal/llm"
	"github.com/fyerfyer/rag-pipeline/internal/transcription"
	"github.com/fyerfyer/rag-pipeline/internal/vectordb"
)

const testDimension = 8

// fakeEmbedder 按词袋哈希生成确定的向量
type fakeEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	batchTexts int
	batchErr   error
}

func vectorFor(text string) []float32 {
	v := make([]float32, testDimension)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%testDimension]++
	}
	v[testDimension-1] += 0.01
	return v
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embedCalls++
	f.mu.Unlock()
	return vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.batchCalls++
	f.batchTexts += len(texts)
	err := f.batchErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Name() string { return "fake-embedder" }

func (f *fakeEmbedder) calls() (embed, batch int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embedCalls, f.batchCalls
}

// testConfig 返回一份能通过校验的配置
func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		GroqAPIKey:      "gsk-test",
		QdrantPath:      filepath.Join(dir, "qdrant_db"),
		CollectionName:  "rag_documents",
		DataDir:         filepath.Join(dir, "data"),
		ModelName:       "llama-3.3-70b-versatile",
		ChunkSize:       1000,
		ChunkOverlap:    200,
		MaxFileSizeMB:   200,
		WhisperModel:    "base",
		UseLocalWhisper: true,
		LLM: config.LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     time.Minute,
			RateLimit:   30,
		},
		Embed: config.EmbedConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			BatchSize: 16,
			Workers:   2,
		},
		VectorDB: config.VectorDBConfig{Type: "memory", TopK: 4},
		Media:    config.MediaConfig{VideoLanguage: "pt"},
		Cache:    config.CacheConfig{Type: "none", TTL: time.Hour},
		Queue:    config.QueueConfig{Concurrency: 2},
		Server:   config.ServerConfig{Port: 8080, Mode: "test"},
		Log:      config.LogConfig{Level: "info"},
	}
}

// testDeps 把假组件包装成构造函数，并统计调用次数
type testDeps struct {
	embedder    *fakeEmbedder
	llm         llm.Client
	transcriber transcription.Transcriber
	store       vectordb.Repository
	cache       cache.Cache
	factoryRuns int
	storeErr    error
}

func newTestDeps(t *testing.T, llmClient llm.Client) *testDeps {
	store, err := vectordb.NewMemoryRepository(vectordb.Config{DistanceType: vectordb.Cosine})
	require.NoError(t, err)
	return &testDeps{
		embedder: &fakeEmbedder{},
		llm:      llmClient,
		store:    store,
	}
}

func (d *testDeps) deps() Dependencies {
	return Dependencies{
		NewEmbedder: func(cfg *config.Config) (embedding.Client, error) {
			d.factoryRuns++
			return d.embedder, nil
		},
		NewLLM: func(cfg *config.Config) (llm.Client, error) {
			d.factoryRuns++
			return d.llm, nil
		},
		NewTranscriber: func(cfg *config.Config) (transcription.Transcriber, error) {
			d.factoryRuns++
			return d.transcriber, nil
		},
		NewExtractor: func(cfg *config.Config) (transcription.AudioExtractor, error) {
			d.factoryRuns++
			return nil, nil
		},
		NewStore: func(cfg *config.Config) (vectordb.Repository, error) {
			d.factoryRuns++
			if d.storeErr != nil {
				return nil, d.storeErr
			}
			return d.store, nil
		},
		NewCache: func(cfg *config.Config) (cache.Cache, error) {
			d.factoryRuns++
			return d.cache, nil
		},
	}
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
