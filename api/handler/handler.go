package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/rag-pipeline/api/middleware"
	"github.com/fyerfyer/rag-pipeline/api/model"
	"github.com/fyerfyer/rag-pipeline/internal/services"
)

// Pipeline 处理器依赖的流水线操作
type Pipeline interface {
	AddQueuedDocuments(ctx context.Context, files []services.QueuedFile) (*services.IngestReport, error)
	AnswerWithSources(ctx context.Context, question string) *services.QAResult
	State() services.State
	Collection() string
	Count(ctx context.Context) (int, error)
}

// respond 写入带追踪ID的成功响应
func respond(c *gin.Context, status int, data interface{}) {
	resp := model.NewSuccessResponse(data)
	resp.TraceID = middleware.TraceID(c)
	c.JSON(status, resp)
}
