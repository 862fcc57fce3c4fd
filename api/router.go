package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/rag-pipeline/api/handler"
	"github.com/fyerfyer/rag-pipeline/api/middleware"
)

// Handlers 路由使用的处理器
type Handlers struct {
	Documents *handler.DocumentHandler
	QA        *handler.QAHandler
	System    *handler.SystemHandler
}

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.New()

	// 追踪ID最先设置，日志和错误处理都会用到
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(Cors())

	// 在调试模式下记录请求体和响应体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
		router.Use(middleware.ResponseLogger())
	}

	api := router.Group("/api")
	{
		docGroup := api.Group("/documents")
		{
			// 上传并入库 - POST /api/documents
			docGroup.POST("", h.Documents.UploadDocuments)

			// 入库记录列表 - GET /api/documents
			docGroup.GET("", h.Documents.ListDocuments)
		}

		// 异步入库任务状态 - GET /api/tasks/:id
		api.GET("/tasks/:id", h.Documents.GetTask)

		// 问答 - POST /api/qa
		api.POST("/qa", h.QA.AnswerQuestion)

		// 支持的格式 - GET /api/formats
		api.GET("/formats", h.System.Formats)

		// 健康检查 - GET /api/health
		api.GET("/health", h.System.Health)
	}

	return router
}

// Cors 跨域资源共享中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
