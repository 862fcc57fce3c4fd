package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/rag-pipeline/api/model"
	"github.com/fyerfyer/rag-pipeline/internal/document"
	"github.com/fyerfyer/rag-pipeline/internal/services"
)

// SystemHandler 格式列表和健康检查
type SystemHandler struct {
	pipeline      Pipeline
	maxFileSizeMB int
	queueEnabled  bool
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(pipeline Pipeline, maxFileSizeMB int, queueEnabled bool) *SystemHandler {
	return &SystemHandler{
		pipeline:      pipeline,
		maxFileSizeMB: maxFileSizeMB,
		queueEnabled:  queueEnabled,
	}
}

// Formats 返回支持的文件格式
// GET /api/formats
func (h *SystemHandler) Formats(c *gin.Context) {
	respond(c, http.StatusOK, model.FormatsResponse{
		Extensions:    document.SupportedExtensions(),
		MaxFileSizeMB: h.maxFileSizeMB,
	})
}

// Health 返回流水线状态，向量库不可用时返回503
// GET /api/health
func (h *SystemHandler) Health(c *gin.Context) {
	state := h.pipeline.State()
	resp := model.HealthResponse{
		Status:     "ok",
		State:      string(state),
		Collection: h.pipeline.Collection(),
		Queue:      h.queueEnabled,
	}

	count, err := h.pipeline.Count(c.Request.Context())
	if err != nil || state != services.StateReady {
		resp.Status = "degraded"
		respond(c, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Records = count
	respond(c, http.StatusOK, resp)
}
