package taskqueue

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/internal/services"
)

// Ingester 处理已登记文件的入库流水线
type Ingester interface {
	AddQueuedDocuments(ctx context.Context, files []services.QueuedFile) (*services.IngestReport, error)
}

// IngestHandler 入库任务处理器
type IngestHandler struct {
	ingester Ingester
	logger   *logrus.Logger
}

// NewIngestHandler 创建入库任务处理器
func NewIngestHandler(ingester Ingester, logger *logrus.Logger) *IngestHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &IngestHandler{ingester: ingester, logger: logger}
}

// GetTaskTypes 返回支持的任务类型
func (h *IngestHandler) GetTaskTypes() []TaskType {
	return []TaskType{TaskIngestFiles}
}

// ProcessTask 解析载荷并调用入库流水线
// 即使返回错误，已完成部分的统计也会作为结果返回
func (h *IngestHandler) ProcessTask(ctx context.Context, task *Task) (interface{}, error) {
	var payload IngestPayload
	if err := UnmarshalPayload(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(payload.Files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidPayload)
	}

	files := make([]services.QueuedFile, len(payload.Files))
	for i, f := range payload.Files {
		files[i] = services.QueuedFile{RecordID: f.RecordID, Path: f.Path}
	}

	h.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"files":   len(files),
	}).Info("Processing ingestion task")

	report, err := h.ingester.AddQueuedDocuments(ctx, files)
	if report == nil {
		return nil, err
	}
	return toIngestResult(report), err
}

func toIngestResult(report *services.IngestReport) *IngestResult {
	result := &IngestResult{
		Files:    report.Files,
		Segments: report.Segments,
		Chunks:   report.Chunks,
		Skipped:  make([]string, 0, len(report.Failures)),
	}
	for _, f := range report.Failures {
		result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	return result
}
