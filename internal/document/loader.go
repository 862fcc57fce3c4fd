package document

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/internal/transcription"
)

var (
	// ErrUnsupportedFormat 不支持的文件扩展名
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoAudioTrack 视频文件中没有音轨
	ErrNoAudioTrack = errors.New("video has no audio track")
	// ErrEmptyContent 文档中没有可提取的文本
	ErrEmptyContent = errors.New("no text content extracted")
)

// Segment 加载器输出的文本片段
type Segment struct {
	Text     string
	Metadata map[string]interface{}
}

// Loader 文档加载器接口
type Loader interface {
	// Load 读取文件并返回文本片段
	Load(ctx context.Context, path string) ([]Segment, error)
}

// Strategy 加载策略
type Strategy string

const (
	StrategyUnstructured Strategy = "unstructured"
	StrategyCSV          Strategy = "csv"
	StrategySpreadsheet  Strategy = "spreadsheet"
	StrategyAudio        Strategy = "audio"
	StrategyVideo        Strategy = "video"
)

type formatEntry struct {
	ext      string
	strategy Strategy
}

// supportedFormats 扩展名到加载策略的映射，顺序即对外展示顺序
var supportedFormats = []formatEntry{
	{".txt", StrategyUnstructured},
	{".pdf", StrategyUnstructured},
	{".md", StrategyUnstructured},
	{".docx", StrategyUnstructured},
	{".html", StrategyUnstructured},
	{".csv", StrategyCSV},
	{".xlsx", StrategySpreadsheet},
	{".xls", StrategySpreadsheet},
	{".mp3", StrategyAudio},
	{".wav", StrategyAudio},
	{".m4a", StrategyAudio},
	{".mp4", StrategyVideo},
	{".avi", StrategyVideo},
	{".mov", StrategyVideo},
}

// SupportedExtensions 返回支持的扩展名列表
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		exts = append(exts, f.ext)
	}
	return exts
}

// StrategyFor 返回文件对应的加载策略
func StrategyFor(path string) (Strategy, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range supportedFormats {
		if f.ext == ext {
			return f.strategy, nil
		}
	}
	if ext == "" {
		ext = "(none)"
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// IsSupported 判断文件扩展名是否受支持
func IsSupported(path string) bool {
	_, err := StrategyFor(path)
	return err == nil
}

// FactoryConfig 加载器工厂配置
type FactoryConfig struct {
	Transcriber   transcription.Transcriber
	Extractor     transcription.AudioExtractor
	VideoLanguage string
	Sheet         string
	TempDir       string
	Logger        *logrus.Logger
}

// Factory 文档加载器工厂
type Factory struct {
	loaders map[Strategy]Loader
}

// NewFactory 创建加载器工厂
func NewFactory(cfg FactoryConfig) *Factory {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Factory{
		loaders: map[Strategy]Loader{
			StrategyUnstructured: NewUnstructuredLoader(),
			StrategyCSV:          NewCSVLoader(),
			StrategySpreadsheet:  NewSpreadsheetLoader(WithSheet(cfg.Sheet)),
			StrategyAudio:        NewAudioLoader(cfg.Transcriber),
			StrategyVideo: NewVideoLoader(cfg.Transcriber, cfg.Extractor,
				WithVideoLanguage(cfg.VideoLanguage),
				WithTempDir(cfg.TempDir),
				WithVideoLogger(logger),
			),
		},
	}
}

// SetLoader 替换某个策略的加载器
func (f *Factory) SetLoader(strategy Strategy, loader Loader) {
	f.loaders[strategy] = loader
}

// GetLoader 根据文件扩展名返回加载器
func (f *Factory) GetLoader(path string) (Loader, error) {
	strategy, err := StrategyFor(path)
	if err != nil {
		return nil, err
	}
	loader, ok := f.loaders[strategy]
	if !ok || loader == nil {
		return nil, fmt.Errorf("no loader registered for strategy %s", strategy)
	}
	return loader, nil
}

// IsSupported 判断文件扩展名是否受支持
func (f *Factory) IsSupported(path string) bool {
	return IsSupported(path)
}

// SupportedExtensions 返回支持的扩展名列表
func (f *Factory) SupportedExtensions() []string {
	return SupportedExtensions()
}

// Load 选择加载器并读取文件
func (f *Factory) Load(ctx context.Context, path string) ([]Segment, error) {
	loader, err := f.GetLoader(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, path)
}
