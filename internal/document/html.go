package document

import (
	"fmt"
	"io"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLParser HTML文档解析器
// 先转换为Markdown再提取纯文本，script/style等内容会被丢弃
type HTMLParser struct{}

// NewHTMLParser 创建HTML解析器
func NewHTMLParser() Parser {
	return &HTMLParser{}
}

// Parse 解析HTML文件
func (p *HTMLParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open html file: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader解析HTML
func (p *HTMLParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read html content: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to convert html %s: %w", filename, err)
	}

	return markdownToText([]byte(md)), nil
}
