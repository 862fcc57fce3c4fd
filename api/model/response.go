package model

import (
	"path/filepath"
	"time"

	"github.com/fyerfyer/rag-pipeline/internal/llm"
	"github.com/fyerfyer/rag-pipeline/internal/models"
	"github.com/fyerfyer/rag-pipeline/internal/services"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// AcceptedFile 已接收并保存的文件
type AcceptedFile struct {
	RecordID   string `json:"record_id,omitempty"`   // 入库记录ID
	FileName   string `json:"filename"`              // 文件名
	Size       int64  `json:"size"`                  // 文件大小
	ArchiveKey string `json:"archive_key,omitempty"` // 归档对象名
}

// SkippedFile 被跳过的文件及原因
type SkippedFile struct {
	FileName string `json:"filename"`
	Reason   string `json:"reason"`
}

// IngestSummary 同步入库的统计
type IngestSummary struct {
	Files    int `json:"files"`
	Segments int `json:"segments"`
	Chunks   int `json:"chunks"`
}

// DocumentUploadResponse 文档上传响应
// 同步入库时返回Summary，异步入库时返回TaskID
type DocumentUploadResponse struct {
	Accepted []AcceptedFile `json:"accepted"`
	Skipped  []SkippedFile  `json:"skipped"`
	Summary  *IngestSummary `json:"summary,omitempty"`
	TaskID   string         `json:"task_id,omitempty"`
}

// NewUploadResponse 将入库报告合并到上传响应，加载失败的文件计入Skipped
func NewUploadResponse(accepted []AcceptedFile, skipped []SkippedFile, report *services.IngestReport) *DocumentUploadResponse {
	resp := &DocumentUploadResponse{
		Accepted: accepted,
		Skipped:  skipped,
	}
	if resp.Accepted == nil {
		resp.Accepted = []AcceptedFile{}
	}
	if resp.Skipped == nil {
		resp.Skipped = []SkippedFile{}
	}
	if report != nil {
		resp.Summary = &IngestSummary{
			Files:    report.Files,
			Segments: report.Segments,
			Chunks:   report.Chunks,
		}
		for _, f := range report.Failures {
			resp.Skipped = append(resp.Skipped, SkippedFile{
				FileName: filepath.Base(f.Path),
				Reason:   f.Err.Error(),
			})
		}
	}
	return resp
}

// DocumentInfo 入库记录
type DocumentInfo struct {
	ID         string    `json:"id"`
	FileName   string    `json:"filename"`
	Strategy   string    `json:"strategy"`
	Status     string    `json:"status"`
	Segments   int       `json:"segments"`
	Error      string    `json:"error,omitempty"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DocumentListResponse 入库记录列表响应
type DocumentListResponse struct {
	Total     int64          `json:"total"`     // 总数量
	Page      int            `json:"page"`      // 当前页码
	PageSize  int            `json:"page_size"` // 每页大小
	Documents []DocumentInfo `json:"documents"` // 记录列表
}

// ConvertToDocumentInfo 转换入库记录
func ConvertToDocumentInfo(files []*models.IngestedFile) []DocumentInfo {
	docs := make([]DocumentInfo, 0, len(files))
	for _, f := range files {
		docs = append(docs, DocumentInfo{
			ID:         f.ID,
			FileName:   f.FileName,
			Strategy:   f.Strategy,
			Status:     string(f.Status),
			Segments:   f.SegmentCount,
			Error:      f.Error,
			ArchiveKey: f.ArchiveKey,
			CreatedAt:  f.CreatedAt,
			UpdatedAt:  f.UpdatedAt,
		})
	}
	return docs
}

// QASourceInfo 问答来源信息
type QASourceInfo struct {
	Source   string                 `json:"source"`             // 来源文件
	Content  string                 `json:"content"`            // 相关文本段落
	Score    float32                `json:"score"`              // 相似度
	Metadata map[string]interface{} `json:"metadata,omitempty"` // 片段元数据
}

// QAResponse 问答响应
type QAResponse struct {
	Question string         `json:"question"` // 用户问题
	Answer   string         `json:"answer"`   // 生成的回答
	Sources  []QASourceInfo `json:"sources"`  // 来源信息
}

// ConvertToSourceInfo 转换检索来源
func ConvertToSourceInfo(refs []llm.SourceReference) []QASourceInfo {
	sources := make([]QASourceInfo, 0, len(refs))
	for _, ref := range refs {
		sources = append(sources, QASourceInfo{
			Source:   ref.Source,
			Content:  ref.Content,
			Score:    ref.Score,
			Metadata: ref.Metadata,
		})
	}
	return sources
}

// FormatsResponse 支持的格式
type FormatsResponse struct {
	Extensions    []string `json:"extensions"`
	MaxFileSizeMB int      `json:"max_file_size_mb"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string `json:"status"`
	State      string `json:"state"`
	Collection string `json:"collection"`
	Records    int    `json:"records"`
	Queue      bool   `json:"queue"`
}
