package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// EmbeddingError 嵌入错误类型
type EmbeddingError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e EmbeddingError) Error() string {
	return fmt.Sprintf("embedding error (code=%d): %s", e.Code, e.Message)
}

// 错误码常量
const (
	ErrCodeInvalidAPIKey     = 1001 // 无效的API密钥
	ErrCodeInvalidRequest    = 1002 // 无效的请求
	ErrCodeNetworkError      = 1003 // 网络连接错误
	ErrCodeRateLimited       = 1004 // 请求频率超限
	ErrCodeServerError       = 1005 // 服务器错误
	ErrCodeTimeout           = 1006 // 请求超时
	ErrCodeEmptyInput        = 1007 // 输入为空
	ErrCodeDimensionMismatch = 1008 // 向量维度不一致
)

// 错误消息常量
const (
	ErrMsgInvalidAPIKey     = "invalid API key"
	ErrMsgInvalidRequest    = "invalid request parameters"
	ErrMsgRateLimited       = "too many requests, rate limit exceeded"
	ErrMsgServerError       = "server error occurred"
	ErrMsgTimeout           = "request timed out"
	ErrMsgEmptyInput        = "input text cannot be empty"
	ErrMsgNetworkError      = "network connection error"
	ErrMsgDimensionMismatch = "unexpected embedding dimension"
)

// NewEmbeddingError 创建新的嵌入错误
func NewEmbeddingError(code int, message string) EmbeddingError {
	return EmbeddingError{
		Code:    code,
		Message: message,
	}
}

// IsRetryable 限流和服务端错误可以重试
func IsRetryable(err error) bool {
	var e EmbeddingError
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == ErrCodeRateLimited || e.Code == ErrCodeServerError
}

// classifyHTTPError 将HTTP状态码映射为嵌入错误
func classifyHTTPError(status int, detail string) EmbeddingError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewEmbeddingError(ErrCodeInvalidAPIKey, ErrMsgInvalidAPIKey+": "+detail)
	case status == http.StatusTooManyRequests:
		return NewEmbeddingError(ErrCodeRateLimited, ErrMsgRateLimited+": "+detail)
	case status >= 500:
		return NewEmbeddingError(ErrCodeServerError, ErrMsgServerError+": "+detail)
	default:
		return NewEmbeddingError(ErrCodeInvalidRequest, ErrMsgInvalidRequest+": "+detail)
	}
}

// classifyTransportError 处理超时与网络错误
func classifyTransportError(ctx context.Context, err error) EmbeddingError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewEmbeddingError(ErrCodeTimeout, ErrMsgTimeout+": "+err.Error())
	}
	return NewEmbeddingError(ErrCodeNetworkError, ErrMsgNetworkError+": "+err.Error())
}

func checkDimensions(vectors [][]float32, want int) error {
	if want <= 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != want {
			return NewEmbeddingError(ErrCodeDimensionMismatch,
				fmt.Sprintf("%s: vector %d has %d dimensions, want %d", ErrMsgDimensionMismatch, i, len(v), want))
		}
	}
	return nil
}

func checkInputs(texts []string) error {
	for i, text := range texts {
		if text == "" {
			return NewEmbeddingError(ErrCodeEmptyInput, fmt.Sprintf("%s (index %d)", ErrMsgEmptyInput, i))
		}
	}
	return nil
}
