package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/internal/transcription"
)

const (
	// NoSpeechPlaceholder 视频没有识别出语音时使用的文本
	NoSpeechPlaceholder = "[Vídeo sem fala detectada]"
	// DefaultVideoLanguage 视频转写使用的默认语言
	DefaultVideoLanguage = "pt"

	unknownLanguage = "unknown"
)

var errNoTranscriber = errors.New("no transcriber configured")

// AudioLoader 音频加载器，整段转写为一个片段
type AudioLoader struct {
	transcriber transcription.Transcriber
}

// NewAudioLoader 创建音频加载器
func NewAudioLoader(t transcription.Transcriber) *AudioLoader {
	return &AudioLoader{transcriber: t}
}

// Load 转写音频文件
func (l *AudioLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	if l.transcriber == nil {
		return nil, errNoTranscriber
	}

	result, err := l.transcriber.Transcribe(ctx, path, "")
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio %s: %w", path, err)
	}

	language := result.Language
	if language == "" {
		language = unknownLanguage
	}

	return []Segment{{
		Text: strings.TrimSpace(result.Text),
		Metadata: map[string]interface{}{
			"source":   path,
			"type":     "audio",
			"language": language,
		},
	}}, nil
}

// VideoLoader 视频加载器，抽取音轨后转写
type VideoLoader struct {
	transcriber transcription.Transcriber
	extractor   transcription.AudioExtractor
	language    string
	tempDir     string
	logger      *logrus.Logger
	remove      func(string) error
}

// VideoOption 视频加载器选项
type VideoOption func(*VideoLoader)

// WithVideoLanguage 设置转写语言
func WithVideoLanguage(language string) VideoOption {
	return func(l *VideoLoader) {
		if language != "" {
			l.language = language
		}
	}
}

// WithTempDir 设置临时音频文件目录
func WithTempDir(dir string) VideoOption {
	return func(l *VideoLoader) {
		l.tempDir = dir
	}
}

// WithVideoLogger 设置日志记录器
func WithVideoLogger(logger *logrus.Logger) VideoOption {
	return func(l *VideoLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewVideoLoader 创建视频加载器
func NewVideoLoader(t transcription.Transcriber, e transcription.AudioExtractor, opts ...VideoOption) *VideoLoader {
	l := &VideoLoader{
		transcriber: t,
		extractor:   e,
		language:    DefaultVideoLanguage,
		logger:      logrus.StandardLogger(),
		remove:      os.Remove,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load 检测音轨、抽取音频并转写
// 临时音频文件在任何返回路径上都会被删除
func (l *VideoLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	if l.transcriber == nil {
		return nil, errNoTranscriber
	}
	if l.extractor == nil {
		return nil, errors.New("no audio extractor configured")
	}

	hasAudio, err := l.extractor.HasAudio(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video %s: %w", path, err)
	}
	if !hasAudio {
		return nil, fmt.Errorf("%w: %s", ErrNoAudioTrack, path)
	}

	tmp, err := os.CreateTemp(l.tempDir, "video_audio_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp audio file: %w", err)
	}
	audioPath := tmp.Name()
	tmp.Close()

	defer func() {
		if rmErr := l.remove(audioPath); rmErr != nil && !os.IsNotExist(rmErr) {
			l.logger.WithFields(logrus.Fields{
				"video": path,
				"audio": audioPath,
				"error": rmErr.Error(),
			}).Warn("Failed to remove temporary audio file")
		}
	}()

	if err := l.extractor.ExtractAudio(ctx, path, audioPath); err != nil {
		return nil, fmt.Errorf("failed to extract audio from %s: %w", path, err)
	}

	result, err := l.transcriber.Transcribe(ctx, audioPath, l.language)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe video %s: %w", path, err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		l.logger.WithField("video", path).Warn("No speech detected in video")
		text = NoSpeechPlaceholder
	}

	language := result.Language
	if language == "" {
		language = l.language
	}

	return []Segment{{
		Text: text,
		Metadata: map[string]interface{}{
			"source":   path,
			"type":     "video",
			"language": language,
		},
	}}, nil
}
