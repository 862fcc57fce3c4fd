package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"baliance.com/gooxml/document"
)

// DocxParser Word文档解析器
type DocxParser struct{}

// NewDocxParser 创建Word文档解析器
func NewDocxParser() Parser {
	return &DocxParser{}
}

// Parse 解析.docx文件
func (p *DocxParser) Parse(filePath string) (string, error) {
	doc, err := document.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx file: %w", err)
	}
	return docxText(doc), nil
}

// ParseReader 从Reader解析.docx内容
func (p *DocxParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read docx content: %w", err)
	}

	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx %s: %w", filename, err)
	}
	return docxText(doc), nil
}

// docxText 按段落拼接文本，段落之间空一行
func docxText(doc *document.Document) string {
	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		var line strings.Builder
		for _, run := range para.Runs() {
			line.WriteString(run.Text())
		}
		if strings.TrimSpace(line.String()) == "" {
			continue
		}
		sb.WriteString(line.String())
		sb.WriteString("\n\n")
	}
	return collapseBlankLines(sb.String())
}
