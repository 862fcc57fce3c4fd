package llm

import "time"

// MessageRole 消息角色类型
type MessageRole string

const (
	// RoleSystem 系统角色
	RoleSystem MessageRole = "system"
	// RoleUser 用户角色
	RoleUser MessageRole = "user"
	// RoleAssistant 助手角色
	RoleAssistant MessageRole = "assistant"
)

// Message 对话消息结构
type Message struct {
	Role    MessageRole `json:"role"`           // 角色
	Content string      `json:"content"`        // 内容
	Name    string      `json:"name,omitempty"` // 可选名称标识
}

// Response 统一的响应结构
type Response struct {
	Text         string    // 生成的文本
	Messages     []Message // 消息列表（如果是对话）
	TokenCount   int       // 使用的token数
	ModelName    string    // 使用的模型名称
	FinishReason string    // 结束原因
	FinishTime   time.Time // 完成时间
}

// RAGResponse RAG响应结构
type RAGResponse struct {
	Answer  string            // 回答内容
	Sources []SourceReference // 引用来源
}

// SourceReference 引用来源
type SourceReference struct {
	ID       string                 // 记录ID
	Source   string                 // 来源文件路径
	Content  string                 // 引用内容
	Score    float32                // 相似度
	Metadata map[string]interface{} // 元数据
}

// RetrievedContext 检索到的上下文片段
type RetrievedContext struct {
	ID       string
	Text     string
	Score    float32
	Metadata map[string]interface{}
}

// Groq托管的常用模型
const (
	ModelLlama33Versatile = "llama-3.3-70b-versatile" // Llama 3.3 70B
	ModelLlama31Instant   = "llama-3.1-8b-instant"    // Llama 3.1 8B（较快）
	ModelGemma2           = "gemma2-9b-it"            // Gemma 2 9B
)

// DefaultGroqBaseURL Groq的OpenAI兼容接口地址
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
