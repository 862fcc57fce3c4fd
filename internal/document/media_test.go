package document

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/rag-pipeline/internal/transcription"
)

func TestAudioLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("single segment with detected language", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		tr.EXPECT().Transcribe(mock.Anything, "talk.mp3", "").
			Return(&transcription.Result{Text: "  olá a todos  ", Language: "pt"}, nil)

		segments, err := NewAudioLoader(tr).Load(ctx, "talk.mp3")
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "olá a todos", segments[0].Text)
		assert.Equal(t, map[string]interface{}{
			"source":   "talk.mp3",
			"type":     "audio",
			"language": "pt",
		}, segments[0].Metadata)
	})

	t.Run("unknown language", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		tr.EXPECT().Transcribe(mock.Anything, "memo.wav", "").
			Return(&transcription.Result{Text: "hello"}, nil)

		segments, err := NewAudioLoader(tr).Load(ctx, "memo.wav")
		require.NoError(t, err)
		assert.Equal(t, "unknown", segments[0].Metadata["language"])
	})

	t.Run("transcription error propagates", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		tr.EXPECT().Transcribe(mock.Anything, "bad.m4a", "").
			Return(nil, errors.New("decoder failed"))

		_, err := NewAudioLoader(tr).Load(ctx, "bad.m4a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoder failed")
		assert.Contains(t, err.Error(), "bad.m4a")
	})

	t.Run("missing transcriber", func(t *testing.T) {
		_, err := NewAudioLoader(nil).Load(ctx, "talk.mp3")
		assert.Error(t, err)
	})
}

func TestVideoLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("transcribes extracted audio in portuguese", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		ex := transcription.NewMockAudioExtractor(t)

		var audioPath string
		ex.EXPECT().HasAudio(mock.Anything, "clip.mp4").Return(true, nil)
		ex.EXPECT().ExtractAudio(mock.Anything, "clip.mp4", mock.AnythingOfType("string")).
			Run(func(_ context.Context, _ string, outPath string) {
				audioPath = outPath
			}).
			Return(nil)
		tr.EXPECT().Transcribe(mock.Anything, mock.AnythingOfType("string"), "pt").
			Return(&transcription.Result{Text: "bom dia", Language: "pt"}, nil)

		loader := NewVideoLoader(tr, ex, WithTempDir(t.TempDir()))
		segments, err := loader.Load(ctx, "clip.mp4")
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "bom dia", segments[0].Text)
		assert.Equal(t, map[string]interface{}{
			"source":   "clip.mp4",
			"type":     "video",
			"language": "pt",
		}, segments[0].Metadata)

		require.NotEmpty(t, audioPath)
		assert.Contains(t, audioPath, ".wav")
		_, statErr := os.Stat(audioPath)
		assert.True(t, os.IsNotExist(statErr), "temporary audio should be removed")
	})

	t.Run("no audio track", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		ex := transcription.NewMockAudioExtractor(t)
		ex.EXPECT().HasAudio(mock.Anything, "silent.avi").Return(false, nil)

		_, err := NewVideoLoader(tr, ex).Load(ctx, "silent.avi")
		assert.ErrorIs(t, err, ErrNoAudioTrack)
		assert.Contains(t, err.Error(), "silent.avi")
	})

	t.Run("empty transcript becomes placeholder", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		ex := transcription.NewMockAudioExtractor(t)
		ex.EXPECT().HasAudio(mock.Anything, "music.mov").Return(true, nil)
		ex.EXPECT().ExtractAudio(mock.Anything, "music.mov", mock.Anything).Return(nil)
		tr.EXPECT().Transcribe(mock.Anything, mock.Anything, "pt").
			Return(&transcription.Result{Text: "   \n"}, nil)

		segments, err := NewVideoLoader(tr, ex, WithTempDir(t.TempDir())).Load(ctx, "music.mov")
		require.NoError(t, err)
		assert.Equal(t, "[Vídeo sem fala detectada]", segments[0].Text)
		assert.Equal(t, "pt", segments[0].Metadata["language"])
	})

	t.Run("temp file removed when extraction fails", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		ex := transcription.NewMockAudioExtractor(t)
		dir := t.TempDir()

		ex.EXPECT().HasAudio(mock.Anything, "broken.mp4").Return(true, nil)
		ex.EXPECT().ExtractAudio(mock.Anything, "broken.mp4", mock.Anything).Return(errors.New("ffmpeg exited 1"))

		_, err := NewVideoLoader(tr, ex, WithTempDir(dir)).Load(ctx, "broken.mp4")
		require.Error(t, err)

		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})

	t.Run("cleanup failure is logged only", func(t *testing.T) {
		tr := transcription.NewMockTranscriber(t)
		ex := transcription.NewMockAudioExtractor(t)
		logger, hook := test.NewNullLogger()

		ex.EXPECT().HasAudio(mock.Anything, "clip.mp4").Return(true, nil)
		ex.EXPECT().ExtractAudio(mock.Anything, "clip.mp4", mock.Anything).Return(nil)
		tr.EXPECT().Transcribe(mock.Anything, mock.Anything, "es").
			Return(&transcription.Result{Text: "hola"}, nil)

		loader := NewVideoLoader(tr, ex,
			WithTempDir(t.TempDir()),
			WithVideoLogger(logger),
			WithVideoLanguage("es"),
		)
		loader.remove = func(string) error { return errors.New("file busy") }

		segments, err := loader.Load(ctx, "clip.mp4")
		require.NoError(t, err)
		assert.Equal(t, "hola", segments[0].Text)
		assert.Equal(t, "es", segments[0].Metadata["language"])

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "file busy", hook.LastEntry().Data["error"])
	})
}
