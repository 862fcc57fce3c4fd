package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UnstructuredLoader 非结构化文档加载器（txt/pdf/md/docx/html）
type UnstructuredLoader struct{}

// NewUnstructuredLoader 创建非结构化文档加载器
func NewUnstructuredLoader() *UnstructuredLoader {
	return &UnstructuredLoader{}
}

// Load 解析文档，PDF按页输出片段，其余格式输出单个片段
func (l *UnstructuredLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser, err := ParserFactory(path)
	if err != nil {
		return nil, err
	}

	base := map[string]interface{}{
		"source":       path,
		"type":         string(detectContentType(path)),
		"content_type": detectMIME(path),
	}

	var segments []Segment
	if pp, ok := parser.(PageParser); ok {
		pages, err := pp.ParsePages(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for i, page := range pages {
			text := strings.TrimSpace(page)
			if text == "" {
				continue
			}
			meta := copyMetadata(base)
			meta["page"] = i + 1
			segments = append(segments, Segment{Text: text, Metadata: meta})
		}
	} else {
		text, err := parser.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			segments = append(segments, Segment{Text: text, Metadata: base})
		}
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, path)
	}
	return segments, nil
}

// detectMIME 根据文件内容探测MIME类型，失败时返回空字符串
func detectMIME(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return mt.String()
}

func copyMetadata(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
