package repository

import (
	"context"

	"github.com/fyerfyer/rag-pipeline/internal/models"
)

// IngestionRepository 入库记录仓储接口
// 记录每个交给入库流程的文件及其结果
type IngestionRepository interface {
	// Record 保存一条入库记录，ID为空时自动生成
	Record(ctx context.Context, file *models.IngestedFile) error

	// UpdateStatus 更新记录状态，用于异步入库完成后回写结果
	UpdateStatus(ctx context.Context, id string, status models.IngestStatus, segments int, errMsg string) error

	// GetByID 根据ID获取记录
	GetByID(ctx context.Context, id string) (*models.IngestedFile, error)

	// List 按创建时间倒序分页列出记录，支持按状态和文件名筛选
	List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.IngestedFile, int64, error)
}
