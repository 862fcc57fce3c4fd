package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// whisperOutput whisper命令行 --output_format json 的输出
type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// LocalWhisper 调用本地whisper命令行进行转写
type LocalWhisper struct {
	model   string
	binary  string
	timeout time.Duration
	workDir string
	run     commandRunner
}

// NewLocalWhisper 创建本地whisper转写器
func NewLocalWhisper(opts ...Option) *LocalWhisper {
	cfg := NewConfig(opts...)
	return &LocalWhisper{
		model:   cfg.Model,
		binary:  cfg.Binary,
		timeout: cfg.Timeout,
		workDir: cfg.WorkingDir,
		run:     execRunner,
	}
}

// Name 返回模型名称
func (w *LocalWhisper) Name() string {
	return "whisper-" + w.model
}

// Transcribe 转写音频文件
func (w *LocalWhisper) Transcribe(ctx context.Context, path string, language string) (*Result, error) {
	if path == "" {
		return nil, NewTranscriptionError(ErrCodeEmptyInput, "audio path cannot be empty")
	}

	outDir, err := os.MkdirTemp(w.workDir, "whisper_")
	if err != nil {
		return nil, fmt.Errorf("failed to create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		path,
		"--model", w.model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
		"--fp16", "False",
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if _, err := w.run(ctx, w.binary, args...); err != nil {
		return nil, NewTranscriptionError(ErrCodeToolFailed,
			fmt.Sprintf("%s failed on %s: %v", w.binary, path, err))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, NewTranscriptionError(ErrCodeBadOutput,
			fmt.Sprintf("whisper output not found for %s: %v", path, err))
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, NewTranscriptionError(ErrCodeBadOutput,
			fmt.Sprintf("invalid whisper output for %s: %v", path, err))
	}

	return &Result{
		Text:     out.Text,
		Language: out.Language,
	}, nil
}
