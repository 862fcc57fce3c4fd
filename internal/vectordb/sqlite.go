package vectordb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fyerfyer/rag-pipeline/internal/database"
	"github.com/fyerfyer/rag-pipeline/internal/models"
)

// searchBatchSize 搜索时每批从数据库读取的记录数
const searchBatchSize = 500

// SQLiteRepository 基于gorm/sqlite的持久化向量仓库
// 向量以二进制保存，搜索时在内存中计算距离
type SQLiteRepository struct {
	db       *gorm.DB
	distType DistanceType
	ownsDB   bool // 连接由本仓库打开时，Close会关闭它
	logger   *logrus.Logger

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteRepository 创建sqlite向量仓库
// config.DB 为空时在 config.DSN（或 config.Path/ingest.db）打开新连接
func NewSQLiteRepository(config Config) (Repository, error) {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	db := config.DB
	ownsDB := false
	if db == nil {
		dsn := config.DSN
		if dsn == "" {
			if config.Path == "" {
				return nil, fmt.Errorf("sqlite vector store requires a path or dsn")
			}
			dsn = filepath.Join(config.Path, "ingest.db")
		}
		dbCfg := database.DefaultConfig()
		dbCfg.DSN = dsn

		var err error
		db, err = database.Setup(dbCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector store: %w", err)
		}
		ownsDB = true
	} else if err := db.AutoMigrate(&models.Collection{}, &models.VectorRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate vector store: %w", err)
	}

	return &SQLiteRepository{
		db:       db,
		distType: normalizeDistType(config.DistanceType),
		ownsDB:   ownsDB,
		logger:   logger,
	}, nil
}

// ListCollections 列出所有集合名称
func (r *SQLiteRepository) ListCollections(ctx context.Context) ([]string, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	var names []string
	if err := r.db.WithContext(ctx).Model(&models.Collection{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// CollectionExists 检查集合是否存在
func (r *SQLiteRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	if err := r.checkOpen(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Collection{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to query collection %s: %w", name, err)
	}
	return count > 0, nil
}

// CreateCollection 创建集合
func (r *SQLiteRepository) CreateCollection(ctx context.Context, name string, dimension int) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	exists, err := r.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrCollectionExists, name)
	}

	col := &models.Collection{
		Name:      name,
		Dimension: dimension,
		Distance:  string(r.distType),
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(col).Error; err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}

	r.logger.WithFields(logrus.Fields{
		"collection": name,
		"dimension":  dimension,
	}).Info("Vector collection created")
	return nil
}

// AddBatch 在一个事务中批量写入记录
func (r *SQLiteRepository) AddBatch(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := r.checkOpen(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := findCollection(tx, collection)
		if err != nil {
			return err
		}

		dimension := col.Dimension
		if dimension == 0 {
			dimension = len(docs[0].Vector)
		}

		now := time.Now()
		records := make([]models.VectorRecord, len(docs))
		for i, doc := range docs {
			if doc.ID == "" {
				return fmt.Errorf("%w at position %d", ErrInvalidID, i)
			}
			if err := ValidateVector(doc.Vector, dimension); err != nil {
				return fmt.Errorf("invalid vector for document %s: %w", doc.ID, err)
			}
			doc = prepareDocument(doc, collection, r.distType, now)

			meta, err := json.Marshal(doc.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode metadata for document %s: %w", doc.ID, err)
			}
			records[i] = models.VectorRecord{
				ID:           doc.ID,
				CollectionID: col.ID,
				Text:         doc.Text,
				Vector:       models.EncodeVector(doc.Vector),
				Metadata:     datatypes.JSON(meta),
				CreatedAt:    doc.CreatedAt,
			}
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(records, 200).Error; err != nil {
			return fmt.Errorf("failed to insert vector records: %w", err)
		}

		if col.Dimension == 0 {
			if err := tx.Model(col).Update("dimension", dimension).Error; err != nil {
				return fmt.Errorf("failed to update collection dimension: %w", err)
			}
		}
		return nil
	})
}

// Search 分批读取集合中的记录并计算相似度
func (r *SQLiteRepository) Search(ctx context.Context, collection string, vector []float32, filter SearchFilter) ([]SearchResult, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	col, err := findCollection(db, collection)
	if err != nil {
		return nil, err
	}
	if err := ValidateVector(vector, col.Dimension); err != nil {
		return nil, err
	}
	if r.distType == Cosine {
		vector = normalizeVector(vector)
	}

	var batch []models.VectorRecord
	var docs []Document
	res := db.Where("collection_id = ?", col.ID).FindInBatches(&batch, searchBatchSize, func(tx *gorm.DB, n int) error {
		for _, rec := range batch {
			doc, err := toDocument(rec, col.Name)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to read vector records: %w", res.Error)
	}

	return rankDocuments(ctx, vector, docs, filter, r.distType)
}

// Count 获取集合中的记录数
func (r *SQLiteRepository) Count(ctx context.Context, collection string) (int, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}

	db := r.db.WithContext(ctx)
	col, err := findCollection(db, collection)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&models.VectorRecord{}).Where("collection_id = ?", col.ID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count vector records: %w", err)
	}
	return int(count), nil
}

// Close 关闭由本仓库打开的数据库连接
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.ownsDB {
		return database.Close(r.db)
	}
	return nil
}

func (r *SQLiteRepository) checkOpen() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

func findCollection(db *gorm.DB, name string) (*models.Collection, error) {
	var col models.Collection
	err := db.Where("name = ?", name).First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", name, err)
	}
	return &col, nil
}

func toDocument(rec models.VectorRecord, collection string) (Document, error) {
	vector, err := models.DecodeVector(rec.Vector)
	if err != nil {
		return Document{}, fmt.Errorf("corrupt vector for document %s: %w", rec.ID, err)
	}

	meta := make(map[string]interface{})
	if len(rec.Metadata) > 0 {
		if err := json.Unmarshal(rec.Metadata, &meta); err != nil {
			return Document{}, fmt.Errorf("corrupt metadata for document %s: %w", rec.ID, err)
		}
	}

	return Document{
		ID:         rec.ID,
		Collection: collection,
		Text:       rec.Text,
		Vector:     vector,
		Metadata:   meta,
		CreatedAt:  rec.CreatedAt,
	}, nil
}
