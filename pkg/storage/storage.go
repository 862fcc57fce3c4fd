package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound 文件不存在
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName 文件名为空或只包含路径分隔符
	ErrInvalidName = errors.New("invalid file name")
)

// FileInfo 文件元数据结构
type FileInfo struct {
	ID       string // 文件唯一标识符
	Name     string // 原始文件名
	Size     int64  // 文件大小(字节)
	MimeType string // 文件MIME类型
	Path     string // 内部存储路径(本地为绝对路径，MinIO为对象名)
}

// Storage 文件存储接口
// 本地实现保存上传文件供加载器读取，MinIO实现用于归档
type Storage interface {
	// Save 保存文件并返回文件信息
	Save(ctx context.Context, reader io.Reader, filename string) (FileInfo, error)

	// Get 获取文件内容
	Get(ctx context.Context, id string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(ctx context.Context, id string) error

	// List 列出所有文件
	List(ctx context.Context) ([]FileInfo, error)

	// Exists 检查文件是否存在
	Exists(ctx context.Context, id string) (bool, error)
}

// BaseName 去掉客户端提交的路径部分，只保留文件名
func BaseName(filename string) (string, error) {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." || strings.TrimSpace(name) == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// getMimeType 根据扩展名判断MIME类型
func getMimeType(filename string) string {
	if m, ok := extensionMIME[strings.ToLower(filepath.Ext(filename))]; ok {
		return m
	}
	return "application/octet-stream"
}

var extensionMIME = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".md":   "text/markdown",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".html": "text/html",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
}
