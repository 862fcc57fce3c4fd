package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/api/middleware"
	"github.com/fyerfyer/rag-pipeline/api/model"
)

// QAHandler 处理问答相关的API请求
type QAHandler struct {
	pipeline Pipeline
	logger   *logrus.Logger
}

// NewQAHandler 创建新的问答处理器
func NewQAHandler(pipeline Pipeline) *QAHandler {
	return &QAHandler{
		pipeline: pipeline,
		logger:   middleware.GetLogger(),
	}
}

// AnswerQuestion 处理问答请求
// 回答失败时流水线返回固定的道歉信息，接口仍然返回200
// POST /api/qa
func (h *QAHandler) AnswerQuestion(c *gin.Context) {
	var req model.QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid request body", err.Error()))
		return
	}

	h.logger.WithField("question", req.Question).Info("Answering question")
	result := h.pipeline.AnswerWithSources(c.Request.Context(), req.Question)

	respond(c, http.StatusOK, model.QAResponse{
		Question: result.Question,
		Answer:   result.Answer,
		Sources:  model.ConvertToSourceInfo(result.Sources),
	})
}
