package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fyerfyer/rag-pipeline/internal/models"
)

// ingestRepository 入库记录仓储实现
type ingestRepository struct {
	db *gorm.DB // 数据库连接
}

// NewIngestionRepository 使用指定的数据库连接创建入库记录仓储
func NewIngestionRepository(db *gorm.DB) IngestionRepository {
	return &ingestRepository{db: db}
}

// Record 保存一条入库记录
func (r *ingestRepository) Record(ctx context.Context, file *models.IngestedFile) error {
	if file == nil {
		return errors.New("ingest record cannot be nil")
	}
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if !file.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidIngestStatus, file.Status)
	}

	return r.db.WithContext(ctx).Create(file).Error
}

// UpdateStatus 更新记录状态
func (r *ingestRepository) UpdateStatus(ctx context.Context, id string, status models.IngestStatus, segments int, errMsg string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidIngestStatus, status)
	}

	result := r.db.WithContext(ctx).Model(&models.IngestedFile{ID: id}).Updates(map[string]interface{}{
		"status":        status,
		"segment_count": segments,
		"error":         errMsg,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrRecordNotFound, id)
	}
	return nil
}

// GetByID 根据ID获取记录
func (r *ingestRepository) GetByID(ctx context.Context, id string) (*models.IngestedFile, error) {
	var file models.IngestedFile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrRecordNotFound, id)
		}
		return nil, err
	}
	return &file, nil
}

// List 分页列出记录
func (r *ingestRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.IngestedFile, int64, error) {
	var files []*models.IngestedFile
	var total int64

	query := r.db.WithContext(ctx).Model(&models.IngestedFile{})

	if filters != nil {
		// 状态过滤
		if status, ok := filters["status"]; ok {
			switch s := status.(type) {
			case models.IngestStatus:
				query = query.Where("status = ?", string(s))
			case string:
				if s != "" {
					query = query.Where("status = ?", s)
				}
			}
		}

		// 文件名模糊匹配
		if name, ok := filters["file_name"].(string); ok && name != "" {
			query = query.Where("file_name LIKE ?", "%"+name+"%")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error; err != nil {
		return nil, 0, err
	}

	return files, total, nil
}
