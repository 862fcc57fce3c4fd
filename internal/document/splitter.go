package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultSeparators 递归切分使用的默认分隔符，优先级从高到低
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Chunk 切分后的文本块
type Chunk struct {
	Text     string
	Index    int
	Metadata map[string]interface{}
}

// Splitter 文本分段器接口
type Splitter interface {
	// Split 切分一段文本
	Split(text string) ([]Chunk, error)
	// SplitSegments 切分加载器输出的片段，块继承片段的元数据
	SplitSegments(segments []Segment) ([]Chunk, error)
}

// SplitterConfig 分段器配置
type SplitterConfig struct {
	ChunkSize    int      // 分块大小（按字符数）
	ChunkOverlap int      // 分块重叠大小（字符数）
	Separators   []string // 分隔符，为空时使用DefaultSeparators
	MaxChunks    int      // 最大分块数量（0表示不限制）
}

// DefaultSplitterConfig 返回默认分段器配置
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Separators:   DefaultSeparators,
		MaxChunks:    0,
	}
}

// TextSplitter 递归字符分段器
// 依次尝试分隔符，块长度不超过ChunkSize，相邻块最多重叠ChunkOverlap
type TextSplitter struct {
	config SplitterConfig
}

// NewTextSplitter 创建新的文本分段器
func NewTextSplitter(config SplitterConfig) *TextSplitter {
	seps := config.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	if seps[len(seps)-1] != "" {
		seps = append(append([]string{}, seps...), "")
	}
	config.Separators = seps
	return &TextSplitter{config: config}
}

func (s *TextSplitter) validate() error {
	if s.config.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", s.config.ChunkSize)
	}
	if s.config.ChunkOverlap < 0 || s.config.ChunkOverlap >= s.config.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be in [0, %d)", s.config.ChunkOverlap, s.config.ChunkSize)
	}
	return nil
}

// Split 将文本分割成块
func (s *TextSplitter) Split(text string) ([]Chunk, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []Chunk{}, nil
	}

	pieces := s.splitText(text, s.config.Separators)
	if s.config.MaxChunks > 0 && len(pieces) > s.config.MaxChunks {
		pieces = pieces[:s.config.MaxChunks]
	}

	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, Chunk{Text: piece, Index: i})
	}
	return chunks, nil
}

// SplitSegments 切分所有片段，Index为全局序号
func (s *TextSplitter) SplitSegments(segments []Segment) ([]Chunk, error) {
	var result []Chunk
	for _, seg := range segments {
		chunks, err := s.Split(seg.Text)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			c.Index = len(result)
			c.Metadata = copyMetadata(seg.Metadata)
			result = append(result, c)
		}
	}
	return result, nil
}

// splitText 选择文本中出现的第一个分隔符切分，过长的部分用后续分隔符递归处理
func (s *TextSplitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < s.config.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.mergeSplits(good)...)
			good = nil
		}
		if len(next) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				final = append(final, trimmed)
			}
		} else {
			final = append(final, s.splitText(piece, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.mergeSplits(good)...)
	}
	return final
}

// mergeSplits 将小片段合并为不超过ChunkSize的块，并保留末尾重叠
func (s *TextSplitter) mergeSplits(splits []string) []string {
	var (
		docs    []string
		current []string
		total   int
	)

	for _, piece := range splits {
		n := runeLen(piece)
		if total+n > s.config.ChunkSize && len(current) > 0 {
			if doc := joinPieces(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.config.ChunkOverlap || (total+n > s.config.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if doc := joinPieces(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepSeparator 切分文本，分隔符保留在后一段的开头
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinPieces(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
