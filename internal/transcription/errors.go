package transcription

import "fmt"

// TranscriptionError 转写错误类型
type TranscriptionError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e TranscriptionError) Error() string {
	return fmt.Sprintf("transcription error (code=%d): %s", e.Code, e.Message)
}

// 错误码常量
const (
	ErrCodeEmptyInput    = 3001 // 输入路径为空
	ErrCodeToolFailed    = 3002 // 外部工具执行失败
	ErrCodeBadOutput     = 3003 // 输出无法解析
	ErrCodeAPIError      = 3004 // 远程API错误
	ErrCodeInvalidAPIKey = 3005 // 缺少API密钥
)

// NewTranscriptionError 创建新的转写错误
func NewTranscriptionError(code int, message string) TranscriptionError {
	return TranscriptionError{
		Code:    code,
		Message: message,
	}
}
