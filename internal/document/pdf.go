package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser PDF文档解析器
// 优先使用ledongthuc/pdf按页提取文本，失败或无文本时回退到pdfcpu内容流提取
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{}
}

var contentPageRe = regexp.MustCompile(`_(\d+)\.txt$`)

// Parse 解析PDF文件并提取其文本内容
func (p *PDFParser) Parse(filePath string) (string, error) {
	pages, err := p.ParsePages(filePath)
	if err != nil {
		return "", err
	}

	nonEmpty := make([]string, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(page))
		}
	}
	return strings.Join(nonEmpty, "\n\n"), nil
}

// ParseReader 将内容写入临时文件后解析
func (p *PDFParser) ParseReader(r io.Reader, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "pdf_reader_*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to buffer pdf %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to buffer pdf %s: %w", filename, err)
	}

	return p.Parse(tmp.Name())
}

// ParsePages 按页提取PDF文本
func (p *PDFParser) ParsePages(filePath string) ([]string, error) {
	pages, err := plainTextPages(filePath)
	if err == nil && hasText(pages) {
		return pages, nil
	}

	fallback, fbErr := contentStreamPages(filePath)
	if fbErr != nil {
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from PDF: %w", err)
		}
		return nil, fmt.Errorf("failed to extract text from PDF: %w", fbErr)
	}
	return fallback, nil
}

// plainTextPages 使用ledongthuc/pdf逐页读取纯文本
func plainTextPages(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// contentStreamPages 使用pdfcpu导出每页内容流
func contentStreamPages(filePath string) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(filePath, tmpDir, nil, conf); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted text dir: %w", err)
	}

	type pageFile struct {
		num  int
		name string
	}
	files := make([]pageFile, 0, len(entries))
	for _, e := range entries {
		m := contentPageRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		files = append(files, pageFile{num: n, name: e.Name()})
	}
	// 按页码数值排序，避免page_10排在page_2之前
	sort.Slice(files, func(i, j int) bool {
		return files[i].num < files[j].num
	})

	pages := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(tmpDir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read page content: %w", err)
		}
		pages = append(pages, string(data))
	}
	return pages, nil
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
