package models

import (
	"time"

	"gorm.io/datatypes"
)

// Collection 向量集合
type Collection struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"` // 集合名称
	Dimension int       `gorm:"not null;default:0"`            // 向量维度，0表示尚未写入
	Distance  string    `gorm:"size:20;not null"`              // 距离度量
	CreatedAt time.Time `gorm:"not null"`
}

// TableName 明确指定表名
func (Collection) TableName() string {
	return "collections"
}

// VectorRecord 向量记录
// 向量以小端序float32二进制存储
type VectorRecord struct {
	ID           string         `gorm:"primaryKey;size:36"`
	CollectionID uint           `gorm:"not null;index"`
	Text         string         `gorm:"type:text;not null"`
	Vector       []byte         `gorm:"type:blob;not null"`
	Metadata     datatypes.JSON `gorm:"type:json"`
	CreatedAt    time.Time      `gorm:"not null;index"`
}

// TableName 明确指定表名
func (VectorRecord) TableName() string {
	return "vector_records"
}

// AllModels 返回需要自动迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&Collection{},
		&VectorRecord{},
		&IngestedFile{},
	}
}
