package vectordb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 常用错误定义
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionExists   = errors.New("collection already exists")
	ErrEmptyVector        = errors.New("empty vector")
	ErrInvalidID          = errors.New("invalid document ID")
	ErrInvalidDimension   = errors.New("vector dimension mismatch")
	ErrClosed             = errors.New("repository is closed")
)

// Document 向量记录
// 入库时创建，之后不再修改或删除
type Document struct {
	ID         string                 // 唯一标识符(uuid)
	Collection string                 // 所属集合
	Text       string                 // 原始文本内容
	Vector     []float32              // 向量表示
	Metadata   map[string]interface{} // 附加元数据
	CreatedAt  time.Time              // 创建时间
}

// DistanceType 向量距离计算方法
type DistanceType string

const (
	// Cosine 余弦相似度
	Cosine DistanceType = "cosine"
	// DotProduct 点积
	DotProduct DistanceType = "dot"
	// Euclidean 欧几里得距离
	Euclidean DistanceType = "l2"
)

// SearchResult 搜索结果
type SearchResult struct {
	Document Document // 文档对象
	Score    float32  // 相似度得分
	Distance float32  // 计算的距离
}

// SearchFilter 搜索过滤条件
type SearchFilter struct {
	Metadata   map[string]interface{} // 按元数据过滤
	MinScore   float32                // 最小相似度分数
	MaxResults int                    // 最大返回结果数
}

// DefaultSearchFilter 返回默认的搜索过滤器
func DefaultSearchFilter() SearchFilter {
	return SearchFilter{
		MinScore:   0.0,
		MaxResults: 4,
	}
}

// Repository 向量数据库仓库接口
// 实现需要支持并发调用
type Repository interface {
	// ListCollections 列出所有集合名称
	ListCollections(ctx context.Context) ([]string, error)

	// CollectionExists 检查集合是否存在
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection 创建集合，dimension为0时由第一次写入决定
	CreateCollection(ctx context.Context, name string, dimension int) error

	// AddBatch 批量写入记录，ID相同的记录会被覆盖
	AddBatch(ctx context.Context, collection string, docs []Document) error

	// Search 相似度搜索
	Search(ctx context.Context, collection string, vector []float32, filter SearchFilter) ([]SearchResult, error)

	// Count 获取集合中的记录数
	Count(ctx context.Context, collection string) (int, error)

	// Close 释放底层资源
	Close() error
}

// Config 向量数据库配置
type Config struct {
	Type         string         // 数据库类型："sqlite" 或 "memory"
	Path         string         // 存储目录
	DSN          string         // sqlite数据源，为空时使用 Path/ingest.db
	DistanceType DistanceType   // 距离计算类型
	DB           *gorm.DB       // 共享的数据库连接，为空时自行打开
	Logger       *logrus.Logger // 日志
}

// Factory 向量数据库工厂函数类型
type Factory func(config Config) (Repository, error)

// RepositoryRegistry 注册可用的向量数据库实现
var RepositoryRegistry = map[string]Factory{}

// RegisterRepository 注册向量数据库工厂函数
func RegisterRepository(name string, factory Factory) {
	RepositoryRegistry[name] = factory
}

// NewRepository 根据配置创建向量数据库实例
func NewRepository(config Config) (Repository, error) {
	factory, ok := RepositoryRegistry[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported vector store type: %q", config.Type)
	}
	return factory(config)
}

func init() {
	RegisterRepository("memory", NewMemoryRepository)
	RegisterRepository("sqlite", NewSQLiteRepository)
}
