package vectordb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepository 内存向量仓库实现
// 用于开发和测试环境，进程退出后数据丢失
type MemoryRepository struct {
	mu          sync.RWMutex                 // 读写锁，确保并发安全
	distType    DistanceType                 // 距离计算类型
	collections map[string]*memoryCollection // 集合名称到集合的映射
	closed      bool
}

// memoryCollection 内存中的单个集合
type memoryCollection struct {
	dimension int
	index     map[string]int // 文档ID到docs下标的映射
	docs      []Document
}

// NewMemoryRepository 创建内存向量仓库
func NewMemoryRepository(config Config) (Repository, error) {
	return &MemoryRepository{
		distType:    normalizeDistType(config.DistanceType),
		collections: make(map[string]*memoryCollection),
	}, nil
}

// ListCollections 列出所有集合名称
func (r *MemoryRepository) ListCollections(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}

	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CollectionExists 检查集合是否存在
func (r *MemoryRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false, ErrClosed
	}
	_, ok := r.collections[name]
	return ok, nil
}

// CreateCollection 创建集合
func (r *MemoryRepository) CreateCollection(ctx context.Context, name string, dimension int) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if _, ok := r.collections[name]; ok {
		return fmt.Errorf("%w: %s", ErrCollectionExists, name)
	}
	r.collections[name] = &memoryCollection{
		dimension: dimension,
		index:     make(map[string]int),
	}
	return nil
}

// AddBatch 批量写入记录
// 任何一条记录校验失败时整批都不会写入
func (r *MemoryRepository) AddBatch(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	col, ok := r.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	dimension := col.dimension
	if dimension == 0 {
		dimension = len(docs[0].Vector)
	}

	prepared := make([]Document, len(docs))
	now := time.Now()
	for i, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w at position %d", ErrInvalidID, i)
		}
		if err := ValidateVector(doc.Vector, dimension); err != nil {
			return fmt.Errorf("invalid vector for document %s: %w", doc.ID, err)
		}
		prepared[i] = prepareDocument(doc, collection, r.distType, now)
	}

	col.dimension = dimension
	for _, doc := range prepared {
		if pos, exists := col.index[doc.ID]; exists {
			col.docs[pos] = doc
			continue
		}
		col.index[doc.ID] = len(col.docs)
		col.docs = append(col.docs, doc)
	}
	return nil
}

// Search 相似度搜索
func (r *MemoryRepository) Search(ctx context.Context, collection string, vector []float32, filter SearchFilter) ([]SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	col, ok := r.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	if err := ValidateVector(vector, col.dimension); err != nil {
		return nil, err
	}

	if r.distType == Cosine {
		vector = normalizeVector(vector)
	}
	return rankDocuments(ctx, vector, col.docs, filter, r.distType)
}

// Count 获取集合中的记录数
func (r *MemoryRepository) Count(ctx context.Context, collection string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrClosed
	}
	col, ok := r.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	return len(col.docs), nil
}

// Close 释放内存中的数据
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.collections = nil
	return nil
}

// prepareDocument 填充默认字段，余弦距离下预先归一化向量
func prepareDocument(doc Document, collection string, distType DistanceType, now time.Time) Document {
	doc.Collection = collection
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]interface{})
	}
	if distType == Cosine {
		doc.Vector = normalizeVector(doc.Vector)
	} else {
		doc.Vector = append([]float32(nil), doc.Vector...)
	}
	return doc
}

// normalizeDistType 未知的距离类型默认使用余弦距离
func normalizeDistType(d DistanceType) DistanceType {
	switch d {
	case Cosine, DotProduct, Euclidean:
		return d
	default:
		return Cosine
	}
}
