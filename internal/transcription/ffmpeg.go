package transcription

import (
	"context"
	"fmt"
	"strings"
)

// FFmpegExtractor 使用ffprobe检测音轨、ffmpeg导出音频
type FFmpegExtractor struct {
	ffmpeg  string
	ffprobe string
	run     commandRunner
}

// NewFFmpegExtractor 创建音轨提取器
func NewFFmpegExtractor(ffmpegBin, ffprobeBin string) *FFmpegExtractor {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &FFmpegExtractor{
		ffmpeg:  ffmpegBin,
		ffprobe: ffprobeBin,
		run:     execRunner,
	}
}

// HasAudio 检查视频是否包含音频流
func (e *FFmpegExtractor) HasAudio(ctx context.Context, videoPath string) (bool, error) {
	out, err := e.run(ctx, e.ffprobe,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0",
		videoPath,
	)
	if err != nil {
		return false, NewTranscriptionError(ErrCodeToolFailed,
			fmt.Sprintf("ffprobe failed on %s: %v", videoPath, err))
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// ExtractAudio 导出16kHz单声道wav
func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	_, err := e.run(ctx, e.ffmpeg,
		"-y",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outPath,
	)
	if err != nil {
		return NewTranscriptionError(ErrCodeToolFailed,
			fmt.Sprintf("ffmpeg failed to extract audio from %s: %v", videoPath, err))
	}
	return nil
}
