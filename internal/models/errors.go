package models

import "errors"

var (
	// ErrRecordNotFound 记录不存在错误
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidIngestStatus 无效的入库状态错误
	ErrInvalidIngestStatus = errors.New("invalid ingest status")
)

// Valid 检查状态取值
func (s IngestStatus) Valid() bool {
	switch s {
	case IngestStatusIngested, IngestStatusFailed, IngestStatusQueued:
		return true
	}
	return false
}
