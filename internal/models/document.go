package models

import (
	"time"

	"gorm.io/gorm"
)

// IngestStatus 文件入库状态
type IngestStatus string

const (
	// IngestStatusIngested 文件已加载并写入向量库
	IngestStatusIngested IngestStatus = "ingested"
	// IngestStatusFailed 文件加载失败，已跳过
	IngestStatusFailed IngestStatus = "failed"
	// IngestStatusQueued 文件已进入异步队列，等待处理
	IngestStatusQueued IngestStatus = "queued"
)

// IngestedFile 入库记录
// 每次交给入库流程的文件对应一行
type IngestedFile struct {
	ID           string       `gorm:"primaryKey"`          // 记录ID
	FileName     string       `gorm:"not null;index"`      // 文件名
	FilePath     string       `gorm:"not null"`            // 文件路径
	Strategy     string       `gorm:"size:20"`             // 加载策略
	Status       IngestStatus `gorm:"size:20;not null;index"`
	SegmentCount int          `gorm:"not null;default:0"` // 加载出的片段数量
	Error        string       `gorm:"type:text"`          // 失败原因
	ArchiveKey   string       `gorm:"size:255"`           // 对象存储中的归档路径
	CreatedAt    time.Time    `gorm:"not null;index"`     // 创建时间
	UpdatedAt    time.Time    `gorm:"not null"`           // 更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (f *IngestedFile) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (f *IngestedFile) BeforeUpdate(tx *gorm.DB) (err error) {
	f.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (IngestedFile) TableName() string {
	return "ingested_files"
}
