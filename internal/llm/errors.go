package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// LLMError 大模型调用错误类型
type LLMError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e LLMError) Error() string {
	return fmt.Sprintf("llm error (code=%d): %s", e.Code, e.Message)
}

// 错误码常量
const (
	ErrCodeInvalidAPIKey  = 1001 // 无效的API密钥
	ErrCodeInvalidRequest = 1002 // 无效的请求
	ErrCodeNetworkError   = 1003 // 网络连接错误
	ErrCodeRateLimited    = 1004 // 请求频率超限
	ErrCodeServerError    = 1005 // 服务器错误
	ErrCodeTimeout        = 1006 // 请求超时
	ErrCodeEmptyPrompt    = 1007 // 提示词为空
	ErrCodeContentFilter  = 1008 // 内容安全过滤
	ErrCodeModelOverload  = 1009 // 模型过载
	ErrCodeContextTooLong = 1010 // 上下文过长
	ErrCodeEmptyResponse  = 1011 // 模型未返回内容
)

// 错误消息常量
const (
	ErrMsgInvalidAPIKey  = "invalid API key"
	ErrMsgInvalidRequest = "invalid request parameters"
	ErrMsgRateLimited    = "too many requests, rate limit exceeded"
	ErrMsgServerError    = "server error occurred"
	ErrMsgTimeout        = "request timed out"
	ErrMsgEmptyPrompt    = "prompt cannot be empty"
	ErrMsgNetworkError   = "network connection error"
	ErrMsgContentFilter  = "content filtered due to safety concerns"
	ErrMsgModelOverload  = "model is currently overloaded"
	ErrMsgContextTooLong = "context length exceeds model's maximum"
	ErrMsgEmptyResponse  = "model returned no choices"
)

// NewLLMError 创建新的大模型错误
func NewLLMError(code int, message string) LLMError {
	return LLMError{
		Code:    code,
		Message: message,
	}
}

// WrapError 包装普通错误为LLM错误
func WrapError(err error, code int) LLMError {
	if err == nil {
		return LLMError{Code: code, Message: "unknown error"}
	}

	// 如果已经是LLMError类型，则直接返回
	var llmErr LLMError
	if errors.As(err, &llmErr) {
		return llmErr
	}

	return LLMError{
		Code:    code,
		Message: err.Error(),
	}
}

// IsRetryable 限流、过载和服务端错误可以重试
func IsRetryable(err error) bool {
	var e LLMError
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeRateLimited, ErrCodeServerError, ErrCodeModelOverload:
		return true
	}
	return false
}

// classifyError 将go-openai返回的错误映射为LLMError
func classifyError(ctx context.Context, err error) LLMError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewLLMError(ErrCodeTimeout, ErrMsgTimeout+": "+err.Error())
	}
	return NewLLMError(ErrCodeNetworkError, ErrMsgNetworkError+": "+err.Error())
}

func classifyStatus(status int, detail string) LLMError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewLLMError(ErrCodeInvalidAPIKey, ErrMsgInvalidAPIKey+": "+detail)
	case status == http.StatusTooManyRequests:
		return NewLLMError(ErrCodeRateLimited, ErrMsgRateLimited+": "+detail)
	case status == http.StatusRequestEntityTooLarge ||
		(status == http.StatusBadRequest && strings.Contains(strings.ToLower(detail), "context")):
		return NewLLMError(ErrCodeContextTooLong, ErrMsgContextTooLong+": "+detail)
	case status == http.StatusServiceUnavailable:
		return NewLLMError(ErrCodeModelOverload, ErrMsgModelOverload+": "+detail)
	case status >= 500:
		return NewLLMError(ErrCodeServerError, ErrMsgServerError+": "+detail)
	default:
		return NewLLMError(ErrCodeInvalidRequest, ErrMsgInvalidRequest+": "+detail)
	}
}
