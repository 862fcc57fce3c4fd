package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fyerfyer/rag-pipeline/api/handler"
	"github.com/fyerfyer/rag-pipeline/internal/models"
	"github.com/fyerfyer/rag-pipeline/internal/repository"
	"github.com/fyerfyer/rag-pipeline/pkg/storage"
	"github.com/fyerfyer/rag-pipeline/pkg/taskqueue"
)

// 测试环境配置
type testEnv struct {
	Router   *gin.Engine
	Pipeline *handler.MockPipeline
	Files    *storage.LocalStorage
	Repo     repository.IngestionRepository
	Queue    *taskqueue.RedisQueue
}

type envOptions struct {
	queue   bool
	maxSize int64
}

// setupTestEnv 创建测试环境
func setupTestEnv(t *testing.T, opts envOptions) *testEnv {
	gin.SetMode(gin.TestMode)

	files, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IngestedFile{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		Pipeline: handler.NewMockPipeline(t),
		Files:    files,
		Repo:     repository.NewIngestionRepository(db),
	}

	maxSize := opts.maxSize
	if maxSize == 0 {
		maxSize = 1 << 20
	}
	docOpts := []handler.DocumentOption{
		handler.WithIngestionRepository(env.Repo),
		handler.WithMaxFileSize(maxSize),
	}

	if opts.queue {
		mr := miniredis.RunT(t)
		env.Queue, err = taskqueue.NewRedisQueue(&taskqueue.Config{RedisAddr: mr.Addr()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = env.Queue.Close() })
		docOpts = append(docOpts, handler.WithQueue(env.Queue))
	}

	env.Router = SetupRouter(Handlers{
		Documents: handler.NewDocumentHandler(env.Pipeline, files, docOpts...),
		QA:        handler.NewQAHandler(env.Pipeline),
		System:    handler.NewSystemHandler(env.Pipeline, int(maxSize>>20), opts.queue),
	})
	return env
}

type uploadFile struct {
	name    string
	content string
}

// multipartRequest 构造上传请求
func multipartRequest(t *testing.T, field string, files ...uploadFile) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// envelope 通用响应结构，Data延迟解析
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
