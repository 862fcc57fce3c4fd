package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache 缓存接口
// 用于缓存查询向量，避免重复调用嵌入模型
type Cache interface {
	// Get 获取缓存值，found表示是否命中
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set 写入缓存，ttl为0时使用默认过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete 删除缓存
	Delete(ctx context.Context, key string) error
	// Clear 清空本缓存命名空间下的所有键
	Clear(ctx context.Context) error
	// Close 释放底层连接
	Close() error
}

// Factory 缓存工厂函数
type Factory func(config Config) (Cache, error)

var registry = make(map[string]Factory)

// RegisterCache 注册缓存实现
func RegisterCache(name string, factory Factory) {
	registry[name] = factory
}

// NewCache 根据配置类型创建缓存
func NewCache(config Config) (Cache, error) {
	factory, ok := registry[config.Type]
	if !ok {
		return nil, fmt.Errorf("unknown cache type: %s", config.Type)
	}
	return factory(config)
}

// Config 缓存配置
type Config struct {
	Type            string        // memory 或 redis
	RedisAddr       string        // Redis地址
	RedisPassword   string        // Redis密码
	RedisDB         int           // Redis数据库编号
	KeyPrefix       string        // 键前缀，Clear只删除带此前缀的键
	DefaultTTL      time.Duration // 默认过期时间
	CleanupInterval time.Duration // 内存缓存清理间隔
}

// DefaultConfig 返回默认缓存配置
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		KeyPrefix:       "ragqa",
		DefaultTTL:      time.Hour * 24,
		CleanupInterval: time.Minute * 10,
	}
}

// GenerateCacheKey 用冒号拼接缓存键
func GenerateCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
