package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/internal/cache"
	"github.com/fyerfyer/rag-pipeline/internal/models"
)

// CachedClient 带缓存的嵌入客户端
// 缓存读写失败只记录日志，不影响向量化结果
type CachedClient struct {
	client Client
	cache  cache.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedClient 用缓存包装嵌入客户端
func NewCachedClient(client Client, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *CachedClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CachedClient{client: client, cache: c, ttl: ttl, logger: logger}
}

// Embed 优先从缓存读取向量
func (c *CachedClient) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}

	vector, err := c.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, vector)
	return vector, nil
}

// EmbedBatch 只对未命中缓存的文本调用底层客户端
func (c *CachedClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
		if v, ok := c.lookup(ctx, keys[i]); ok {
			results[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := c.client.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embedding client returned %d vectors for %d texts", len(vectors), len(missTexts))
	}
	for j, i := range missIdx {
		results[i] = vectors[j]
		c.store(ctx, keys[i], vectors[j])
	}
	return results, nil
}

// Name 返回底层模型名称
func (c *CachedClient) Name() string {
	return c.client.Name()
}

func (c *CachedClient) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cache.GenerateCacheKey("embed", c.client.Name(), hex.EncodeToString(sum[:]))
}

func (c *CachedClient) lookup(ctx context.Context, key string) ([]float32, bool) {
	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Embedding cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	vector, err := decodeVector(raw)
	if err != nil {
		c.logger.WithField("key", key).Warn("Discarding corrupt embedding cache entry")
		return nil, false
	}
	return vector, true
}

func (c *CachedClient) store(ctx context.Context, key string, vector []float32) {
	if err := c.cache.Set(ctx, key, encodeVector(vector), c.ttl); err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Embedding cache write failed")
	}
}

// encodeVector 缓存值为向量二进制的base64
func encodeVector(v []float32) string {
	return base64.StdEncoding.EncodeToString(models.EncodeVector(v))
}

func decodeVector(s string) ([]float32, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return models.DecodeVector(buf)
}
