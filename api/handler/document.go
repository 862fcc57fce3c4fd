package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/api/middleware"
	"github.com/fyerfyer/rag-pipeline/api/model"
	"github.com/fyerfyer/rag-pipeline/internal/document"
	"github.com/fyerfyer/rag-pipeline/internal/models"
	"github.com/fyerfyer/rag-pipeline/internal/repository"
	"github.com/fyerfyer/rag-pipeline/internal/services"
	"github.com/fyerfyer/rag-pipeline/pkg/storage"
	"github.com/fyerfyer/rag-pipeline/pkg/taskqueue"
)

// DocumentHandler 处理文档上传和入库记录相关的API请求
type DocumentHandler struct {
	pipeline Pipeline                       // 入库流水线
	files    storage.Storage                // 上传文件保存位置
	archive  storage.Storage                // 可选的归档存储
	queue    taskqueue.Queue                // 可选的异步队列
	repo     repository.IngestionRepository // 入库记录
	maxSize  int64                          // 单个文件大小上限（字节）
	logger   *logrus.Logger
}

// DocumentOption 文档处理器选项
type DocumentOption func(*DocumentHandler)

// WithArchive 上传的文件同时归档到对象存储
func WithArchive(archive storage.Storage) DocumentOption {
	return func(h *DocumentHandler) {
		h.archive = archive
	}
}

// WithQueue 通过任务队列异步入库
func WithQueue(queue taskqueue.Queue) DocumentOption {
	return func(h *DocumentHandler) {
		h.queue = queue
	}
}

// WithIngestionRepository 设置入库记录仓储
func WithIngestionRepository(repo repository.IngestionRepository) DocumentOption {
	return func(h *DocumentHandler) {
		h.repo = repo
	}
}

// WithMaxFileSize 设置单个文件大小上限，0表示不限制
func WithMaxFileSize(bytes int64) DocumentOption {
	return func(h *DocumentHandler) {
		h.maxSize = bytes
	}
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(pipeline Pipeline, files storage.Storage, opts ...DocumentOption) *DocumentHandler {
	h := &DocumentHandler{
		pipeline: pipeline,
		files:    files,
		logger:   middleware.GetLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// UploadDocuments 上传并入库文档
// POST /api/documents
func (h *DocumentHandler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid multipart form", err.Error()))
		return
	}

	var headers []*multipart.FileHeader
	headers = append(headers, form.File["files"]...)
	headers = append(headers, form.File["files[]"]...)
	if len(headers) == 0 {
		middleware.HandleError(c, middleware.NewValidationError("no files uploaded"))
		return
	}

	ctx := c.Request.Context()
	var accepted []model.AcceptedFile
	var skipped []model.SkippedFile
	var queued []services.QueuedFile
	var records []*models.IngestedFile

	for _, fh := range headers {
		name, reason := h.checkFile(fh)
		if reason != "" {
			h.logger.WithFields(logrus.Fields{
				"filename": fh.Filename,
				"reason":   reason,
			}).Warn("Skipping uploaded file")
			skipped = append(skipped, model.SkippedFile{FileName: fh.Filename, Reason: reason})
			continue
		}

		info, err := h.saveFile(ctx, fh, name)
		if err != nil {
			middleware.HandleError(c, middleware.NewInternalError("failed to save uploaded file", err.Error()))
			return
		}

		file := model.AcceptedFile{
			FileName:   name,
			Size:       info.Size,
			ArchiveKey: h.archiveFile(ctx, fh, name),
		}

		if h.repo != nil {
			strategy, _ := document.StrategyFor(name)
			record := &models.IngestedFile{
				FileName:   name,
				FilePath:   info.Path,
				Strategy:   string(strategy),
				Status:     models.IngestStatusQueued,
				ArchiveKey: file.ArchiveKey,
			}
			if err := h.repo.Record(ctx, record); err != nil {
				middleware.HandleError(c, middleware.NewInternalError("failed to record upload", err.Error()))
				return
			}
			file.RecordID = record.ID
			records = append(records, record)
		}

		accepted = append(accepted, file)
		queued = append(queued, services.QueuedFile{RecordID: file.RecordID, Path: info.Path})
	}

	if len(queued) == 0 {
		respond(c, http.StatusOK, model.NewUploadResponse(accepted, skipped, nil))
		return
	}

	if h.queue != nil {
		h.enqueue(c, accepted, skipped, queued, records)
		return
	}

	report, err := h.pipeline.AddQueuedDocuments(ctx, queued)
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to ingest documents", err.Error()))
		return
	}

	respond(c, http.StatusOK, model.NewUploadResponse(accepted, skipped, report))
}

// checkFile 检查文件名、大小和格式，返回跳过原因
func (h *DocumentHandler) checkFile(fh *multipart.FileHeader) (string, string) {
	name, err := storage.BaseName(fh.Filename)
	if err != nil {
		return "", err.Error()
	}
	if h.maxSize > 0 && fh.Size > h.maxSize {
		return "", fmt.Sprintf("file size %d bytes exceeds the %d MB limit", fh.Size, h.maxSize>>20)
	}
	if _, err := document.StrategyFor(name); err != nil {
		return "", err.Error()
	}
	return name, ""
}

func (h *DocumentHandler) saveFile(ctx context.Context, fh *multipart.FileHeader, name string) (storage.FileInfo, error) {
	src, err := fh.Open()
	if err != nil {
		return storage.FileInfo{}, err
	}
	defer src.Close()
	return h.files.Save(ctx, src, name)
}

// archiveFile 归档失败只记录警告
func (h *DocumentHandler) archiveFile(ctx context.Context, fh *multipart.FileHeader, name string) string {
	if h.archive == nil {
		return ""
	}

	src, err := fh.Open()
	if err == nil {
		defer src.Close()
		var info storage.FileInfo
		if info, err = h.archive.Save(ctx, src, name); err == nil {
			return info.ID
		}
	}

	h.logger.WithFields(logrus.Fields{
		"filename": name,
		"error":    err.Error(),
	}).Warn("Failed to archive uploaded file")
	return ""
}

// enqueue 提交异步入库任务
func (h *DocumentHandler) enqueue(c *gin.Context, accepted []model.AcceptedFile, skipped []model.SkippedFile,
	queued []services.QueuedFile, records []*models.IngestedFile) {
	ctx := c.Request.Context()

	payload := &taskqueue.IngestPayload{Files: make([]taskqueue.IngestFile, len(queued))}
	for i, f := range queued {
		payload.Files[i] = taskqueue.IngestFile{RecordID: f.RecordID, Path: f.Path}
	}

	taskID, err := h.queue.Enqueue(ctx, taskqueue.TaskIngestFiles, payload)
	if err != nil {
		for _, r := range records {
			if updateErr := h.repo.UpdateStatus(ctx, r.ID, models.IngestStatusFailed, 0, err.Error()); updateErr != nil {
				h.logger.WithError(updateErr).WithField("record_id", r.ID).Warn("Failed to mark record as failed")
			}
		}
		middleware.HandleError(c, middleware.NewInternalError("failed to enqueue ingestion task", err.Error()))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"task_id": taskID,
		"files":   len(queued),
	}).Info("Ingestion task enqueued")

	resp := model.NewUploadResponse(accepted, skipped, nil)
	resp.TaskID = taskID
	respond(c, http.StatusAccepted, resp)
}

// ListDocuments 分页列出入库记录
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req model.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid query parameters", err.Error()))
		return
	}
	if h.repo == nil {
		middleware.HandleError(c, middleware.NewUnavailableError("ingestion records are not enabled"))
		return
	}

	files, total, err := h.repo.List(c.Request.Context(), req.Offset(), req.GetPageSize(), req.Filters())
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to list documents", err.Error()))
		return
	}

	respond(c, http.StatusOK, model.DocumentListResponse{
		Total:     total,
		Page:      req.GetPage(),
		PageSize:  req.GetPageSize(),
		Documents: model.ConvertToDocumentInfo(files),
	})
}

// GetTask 查询异步入库任务
// GET /api/tasks/:id
func (h *DocumentHandler) GetTask(c *gin.Context) {
	var req model.TaskRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid task id", err.Error()))
		return
	}
	if h.queue == nil {
		middleware.HandleError(c, middleware.NewUnavailableError("task queue is not enabled"))
		return
	}

	task, err := h.queue.GetTask(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, taskqueue.ErrTaskNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError("task not found"))
			return
		}
		middleware.HandleError(c, middleware.NewInternalError("failed to get task", err.Error()))
		return
	}

	respond(c, http.StatusOK, taskqueue.NewTaskInfo(task))
}
