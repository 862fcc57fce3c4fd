package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"baliance.com/gooxml/document"
	"github.com/jung-kurt/gofpdf"
)

func createTempFile(t *testing.T, content, ext string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "ragqa-test-*"+ext)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

// createTempPDF 每个参数生成一页
func createTempPDF(t *testing.T, pages ...string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "ragqa-test-*.pdf")
	if err != nil {
		t.Fatalf("Failed to create temp PDF file: %v", err)
	}
	defer tmpFile.Close()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for _, text := range pages {
		pdf.AddPage()
		pdf.MultiCell(0, 10, text, "", "", false)
	}
	if err := pdf.Output(tmpFile); err != nil {
		t.Fatalf("Failed to write PDF: %v", err)
	}
	return tmpFile.Name()
}

func createTempDocx(t *testing.T, paragraphs ...string) string {
	t.Helper()
	doc := document.New()
	for _, text := range paragraphs {
		doc.AddParagraph().AddRun().AddText(text)
	}
	path := filepath.Join(t.TempDir(), "report.docx")
	if err := doc.SaveToFile(path); err != nil {
		t.Fatalf("Failed to write docx: %v", err)
	}
	return path
}

func TestPlainTextParser(t *testing.T) {
	content := "Hello, this is a plain text file.\nSecond line."
	file := createTempFile(t, content, ".txt")

	parser := NewPlainTextParser()
	text, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("PlainTextParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "plain text file") {
		t.Errorf("Expected content not found in parsed text: %s", text)
	}
}

func TestPlainTextParserRejectsBinary(t *testing.T) {
	file := createTempFile(t, string([]byte{0xff, 0xfe, 0xfd}), ".txt")

	if _, err := NewPlainTextParser().Parse(file); err == nil {
		t.Fatal("Expected error for invalid UTF-8 content")
	}
}

func TestMarkdownParser(t *testing.T) {
	content := "# Title\n\nThis is a **markdown** file.\n\n- Item 1\n- Item 2"
	file := createTempFile(t, content, ".md")

	parser := NewMarkdownParser()
	text, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("MarkdownParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "markdown file") {
		t.Errorf("Expected content not found in parsed text: %s", text)
	}
	if !strings.Contains(text, "Item 1") {
		t.Errorf("Expected list item not found in parsed text: %s", text)
	}
	if strings.Contains(text, "**") || strings.Contains(text, "#") {
		t.Errorf("Markdown syntax should be stripped: %s", text)
	}
	if !strings.Contains(text, "Title\n\nThis is") {
		t.Errorf("Expected blank line between heading and paragraph: %q", text)
	}
}

func TestHTMLParser(t *testing.T) {
	content := `<html><head><style>body{color:red}</style><script>var x = 1;</script></head>
<body><h1>Relatório</h1><p>Receita anual de <b>dez</b> milhões.</p></body></html>`
	file := createTempFile(t, content, ".html")

	text, err := NewHTMLParser().Parse(file)
	if err != nil {
		t.Fatalf("HTMLParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "Relatório") || !strings.Contains(text, "dez milhões") {
		t.Errorf("Expected content not found in parsed html: %s", text)
	}
	if strings.Contains(text, "var x") || strings.Contains(text, "color:red") {
		t.Errorf("Script and style content should be dropped: %s", text)
	}
}

func TestDocxParser(t *testing.T) {
	file := createTempDocx(t, "Primeiro parágrafo.", "", "Segundo parágrafo.")

	text, err := NewDocxParser().Parse(file)
	if err != nil {
		t.Fatalf("DocxParser.Parse failed: %v", err)
	}
	if text != "Primeiro parágrafo.\n\nSegundo parágrafo." {
		t.Errorf("Unexpected docx text: %q", text)
	}
}

func TestPDFParser(t *testing.T) {
	file := createTempPDF(t, "This is a PDF test.\nSecond line.")

	parser := NewPDFParser()
	text, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("PDFParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "PDF test") {
		t.Errorf("Expected content not found in parsed PDF text: %s", text)
	}
}

func TestPDFParserPages(t *testing.T) {
	file := createTempPDF(t, "First page content", "Second page content")

	pages, err := NewPDFParser().(PageParser).ParsePages(file)
	if err != nil {
		t.Fatalf("ParsePages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0], "First page") || !strings.Contains(pages[1], "Second page") {
		t.Errorf("Pages out of order: %q", pages)
	}
}

func TestPDFParserInvalidFile(t *testing.T) {
	file := createTempFile(t, "not a pdf at all", ".pdf")

	if _, err := NewPDFParser().Parse(file); err == nil {
		t.Fatal("Expected error for corrupt PDF")
	}
}

func TestParserFactory(t *testing.T) {
	txtFile := createTempFile(t, "plain text", ".txt")
	mdFile := createTempFile(t, "# Markdown", ".md")
	htmlFile := createTempFile(t, "<p>html body</p>", ".html")
	pdfFile := createTempPDF(t, "PDF content")
	docxFile := createTempDocx(t, "docx content")

	tests := []struct {
		file     string
		expected string
	}{
		{txtFile, "plain text"},
		{mdFile, "Markdown"},
		{htmlFile, "html body"},
		{pdfFile, "PDF content"},
		{docxFile, "docx content"},
	}

	for _, tt := range tests {
		parser, err := ParserFactory(tt.file)
		if err != nil {
			t.Fatalf("ParserFactory failed for %s: %v", tt.file, err)
		}
		text, err := parser.Parse(tt.file)
		if err != nil {
			t.Fatalf("Parser.Parse failed for %s: %v", tt.file, err)
		}
		if !strings.Contains(text, tt.expected) {
			t.Errorf("Expected '%s' in parsed text, got: %s", tt.expected, text)
		}
	}

	if _, err := ParserFactory("notes.rtf"); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
