package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/rag-pipeline/api/model"
	"github.com/fyerfyer/rag-pipeline/internal/models"
	"github.com/fyerfyer/rag-pipeline/internal/services"
	"github.com/fyerfyer/rag-pipeline/pkg/taskqueue"
)

func TestUploadDocumentsSync(t *testing.T) {
	env := setupTestEnv(t, envOptions{maxSize: 1 << 20})

	var queued []services.QueuedFile
	env.Pipeline.EXPECT().
		AddQueuedDocuments(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, files []services.QueuedFile) {
			queued = files
		}).
		Return(&services.IngestReport{Files: 1, Segments: 1, Chunks: 2}, nil).
		Once()

	req := multipartRequest(t, "files",
		uploadFile{"manual.txt", "Guia de instalação"},
		uploadFile{"imagem.png", "png"},
		uploadFile{"grande.csv", strings.Repeat("x", 2<<20)},
	)
	w := env.serve(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.DocumentUploadResponse
	body := decode(t, w, &resp)
	assert.Equal(t, 0, body.Code)
	assert.NotEmpty(t, body.TraceID)

	require.Len(t, resp.Accepted, 1)
	assert.Equal(t, "manual.txt", resp.Accepted[0].FileName)
	assert.NotEmpty(t, resp.Accepted[0].RecordID)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, "imagem.png", resp.Skipped[0].FileName)
	assert.Contains(t, resp.Skipped[0].Reason, ".png")
	assert.Equal(t, "grande.csv", resp.Skipped[1].FileName)
	assert.Contains(t, resp.Skipped[1].Reason, "exceeds")
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 2, resp.Summary.Chunks)
	assert.Empty(t, resp.TaskID)

	// 文件按原始文件名保存在数据目录
	require.Len(t, queued, 1)
	assert.Equal(t, filepath.Join(env.Files.BasePath(), "manual.txt"), queued[0].Path)
	assert.Equal(t, resp.Accepted[0].RecordID, queued[0].RecordID)
	data, err := os.ReadFile(queued[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "Guia de instalação", string(data))

	record, err := env.Repo.GetByID(context.Background(), queued[0].RecordID)
	require.NoError(t, err)
	assert.Equal(t, "unstructured", record.Strategy)
}

func TestUploadDocumentsLoadFailuresReported(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	env.Pipeline.EXPECT().
		AddQueuedDocuments(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, files []services.QueuedFile) (*services.IngestReport, error) {
			return &services.IngestReport{
				Failures: []services.FileFailure{{Path: files[0].Path, Err: errors.New("document has no extractable content")}},
			}, nil
		})

	w := env.serve(multipartRequest(t, "files[]", uploadFile{"vazio.md", " "}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.DocumentUploadResponse
	decode(t, w, &resp)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "vazio.md", resp.Skipped[0].FileName)
	assert.Equal(t, 0, resp.Summary.Chunks)
}

func TestUploadDocumentsStoreFailure(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	env.Pipeline.EXPECT().
		AddQueuedDocuments(mock.Anything, mock.Anything).
		Return(&services.IngestReport{Files: 1}, errors.New("failed to add documents to vector store: disk I/O error"))

	req := multipartRequest(t, "files", uploadFile{"a.txt", "conteúdo"})
	req.Header.Set("X-Trace-ID", "trace-123")
	w := env.serve(req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w, nil)
	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.Contains(t, body.Message, "disk I/O error")
	assert.Equal(t, "trace-123", body.TraceID)
	assert.Equal(t, "trace-123", w.Header().Get("X-Trace-ID"))
}

func TestUploadDocumentsOnlySkipped(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	w := env.serve(multipartRequest(t, "files", uploadFile{"planilha.numbers", "x"}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.DocumentUploadResponse
	decode(t, w, &resp)
	assert.Empty(t, resp.Accepted)
	assert.Len(t, resp.Skipped, 1)
	assert.Nil(t, resp.Summary)
	env.Pipeline.AssertNotCalled(t, "AddQueuedDocuments", mock.Anything, mock.Anything)
}

func TestUploadDocumentsValidation(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	w := env.serve(multipartRequest(t, "attachment", uploadFile{"a.txt", "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w, nil).Message, "no files uploaded")

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w = env.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadDocumentsQueued(t *testing.T) {
	env := setupTestEnv(t, envOptions{queue: true})
	ctx := context.Background()

	w := env.serve(multipartRequest(t, "files",
		uploadFile{"aula.mp3", "audio"},
		uploadFile{"notas.txt", "texto"},
	))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var resp model.DocumentUploadResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.TaskID)
	require.Len(t, resp.Accepted, 2)
	assert.Nil(t, resp.Summary)

	task, err := env.Queue.GetTask(ctx, resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, taskqueue.StatusPending, task.Status)

	var payload taskqueue.IngestPayload
	require.NoError(t, taskqueue.UnmarshalPayload(task.Payload, &payload))
	require.Len(t, payload.Files, 2)
	assert.Equal(t, resp.Accepted[0].RecordID, payload.Files[0].RecordID)
	assert.Equal(t, filepath.Join(env.Files.BasePath(), "aula.mp3"), payload.Files[0].Path)

	record, err := env.Repo.GetByID(ctx, payload.Files[1].RecordID)
	require.NoError(t, err)
	assert.Equal(t, models.IngestStatusQueued, record.Status)

	env.Pipeline.AssertNotCalled(t, "AddQueuedDocuments", mock.Anything, mock.Anything)

	// 任务查询
	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/tasks/"+resp.TaskID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info taskqueue.TaskInfo
	decode(t, w, &info)
	assert.Equal(t, resp.TaskID, info.ID)
	assert.Equal(t, taskqueue.StatusPending, info.Status)

	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/tasks/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTaskWithoutQueue(t *testing.T) {
	env := setupTestEnv(t, envOptions{})
	w := env.serve(httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListDocuments(t *testing.T) {
	env := setupTestEnv(t, envOptions{})
	ctx := context.Background()

	for i, name := range []string{"a.txt", "b.pdf", "c.csv"} {
		status := models.IngestStatusIngested
		if i == 1 {
			status = models.IngestStatusFailed
		}
		require.NoError(t, env.Repo.Record(ctx, &models.IngestedFile{
			FileName: name,
			FilePath: "/data/" + name,
			Status:   status,
		}))
	}

	w := env.serve(httptest.NewRequest(http.MethodGet, "/api/documents?page=1&page_size=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list model.DocumentListResponse
	decode(t, w, &list)
	assert.Equal(t, int64(3), list.Total)
	assert.Equal(t, 2, list.PageSize)
	assert.Len(t, list.Documents, 2)

	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/documents?status=failed", nil))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, "b.pdf", list.Documents[0].FileName)
	assert.Equal(t, "failed", list.Documents[0].Status)

	w = env.serve(httptest.NewRequest(http.MethodGet, "/api/documents?status=done", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
