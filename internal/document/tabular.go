package document

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// FlattenRow 将一行表格数据展开为 "列名: 值" 形式的多行文本
// 超出表头的单元格命名为 column_<n>，缺失的单元格记为空字符串
func FlattenRow(headers, values []string) string {
	n := len(headers)
	if len(values) > n {
		n = len(values)
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("column_%d", i+1)
		if i < len(headers) {
			name = headers[i]
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		lines = append(lines, name+": "+value)
	}
	return strings.Join(lines, "\n")
}

// CSVLoader CSV加载器，每个数据行生成一个片段
type CSVLoader struct{}

// NewCSVLoader 创建CSV加载器
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load 读取CSV文件，首行作为表头
func (l *CSVLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header row", ErrEmptyContent, path)
		}
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	if err := checkUTF8(headers); err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}

	var segments []Segment
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
		}
		if err := checkUTF8(record); err != nil {
			return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
		}
		segments = append(segments, Segment{
			Text: FlattenRow(headers, record),
			Metadata: map[string]interface{}{
				"source": path,
				"row":    row,
				"type":   "csv",
			},
		})
		row++
	}

	return segments, nil
}

func checkUTF8(values []string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("invalid UTF-8 value %q", v)
		}
	}
	return nil
}

// SpreadsheetLoader Excel加载器，支持.xlsx与.xls
type SpreadsheetLoader struct {
	sheet string
}

// SpreadsheetOption Excel加载器选项
type SpreadsheetOption func(*SpreadsheetLoader)

// WithSheet 只读取指定工作表，空字符串表示全部
func WithSheet(name string) SpreadsheetOption {
	return func(l *SpreadsheetLoader) {
		l.sheet = name
	}
}

// NewSpreadsheetLoader 创建Excel加载器
func NewSpreadsheetLoader(opts ...SpreadsheetOption) *SpreadsheetLoader {
	l := &SpreadsheetLoader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type sheetRows struct {
	name string
	rows [][]string
}

// Load 读取工作表，每个工作表首行作为表头
func (l *SpreadsheetLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	var (
		sheets []sheetRows
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		sheets, err = l.readXLSX(path)
	case ".xls":
		sheets, err = l.readXLS(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", path, err)
	}

	var segments []Segment
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(sheet.rows) == 0 {
			continue
		}

		headers := sheet.rows[0]
		row := 0
		for _, values := range sheet.rows[1:] {
			segments = append(segments, Segment{
				Text: FlattenRow(headers, values),
				Metadata: map[string]interface{}{
					"source": path,
					"sheet":  sheet.name,
					"row":    row,
					"type":   "excel",
				},
			})
			row++
		}
	}

	return segments, nil
}

func (l *SpreadsheetLoader) readXLSX(path string) ([]sheetRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if l.sheet != "" {
		idx, err := f.GetSheetIndex(l.sheet)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", l.sheet)
		}
		names = []string{l.sheet}
	}

	result := make([]sheetRows, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		result = append(result, sheetRows{name: name, rows: rows})
	}
	return result, nil
}

func (l *SpreadsheetLoader) readXLS(path string) (result []sheetRows, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("xls reader panic: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	found := false
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		if l.sheet != "" && sheet.Name != l.sheet {
			continue
		}
		found = true

		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			values := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				values = append(values, row.Col(c))
			}
			rows = append(rows, values)
		}
		result = append(result, sheetRows{name: sheet.Name, rows: trimTrailingRows(rows)})
	}

	if l.sheet != "" && !found {
		return nil, fmt.Errorf("sheet %q not found", l.sheet)
	}
	return result, nil
}

// trimTrailingRows 去掉工作表末尾没有任何值的行，与excelize GetRows一致
func trimTrailingRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && !hasValue(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func hasValue(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
