package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		path     string
		expected Strategy
	}{
		{"notes.txt", StrategyUnstructured},
		{"REPORT.PDF", StrategyUnstructured},
		{"readme.md", StrategyUnstructured},
		{"contract.docx", StrategyUnstructured},
		{"page.html", StrategyUnstructured},
		{"table.csv", StrategyCSV},
		{"book.xlsx", StrategySpreadsheet},
		{"legacy.XLS", StrategySpreadsheet},
		{"talk.mp3", StrategyAudio},
		{"memo.wav", StrategyAudio},
		{"voice.m4a", StrategyAudio},
		{"clip.mp4", StrategyVideo},
		{"old.avi", StrategyVideo},
		{"phone.MOV", StrategyVideo},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			strategy, err := StrategyFor(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strategy)
			assert.True(t, IsSupported(tt.path))
		})
	}
}

func TestStrategyForUnsupported(t *testing.T) {
	for _, path := range []string{"image.png", "archive.zip", "noextension", "doc.doc"} {
		_, err := StrategyFor(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, path)
		assert.False(t, IsSupported(path))
	}

	_, err := StrategyFor("photo.jpeg")
	assert.Contains(t, err.Error(), ".jpeg")
}

func TestSupportedExtensionsOrder(t *testing.T) {
	assert.Equal(t, []string{
		".txt", ".pdf", ".md", ".docx", ".html",
		".csv", ".xlsx", ".xls",
		".mp3", ".wav", ".m4a",
		".mp4", ".avi", ".mov",
	}, SupportedExtensions())
}

type stubLoader struct {
	segments []Segment
	err      error
	calls    []string
}

func (s *stubLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	s.calls = append(s.calls, path)
	return s.segments, s.err
}

func TestFactoryGetLoader(t *testing.T) {
	factory := NewFactory(FactoryConfig{})

	loader, err := factory.GetLoader("data/table.csv")
	require.NoError(t, err)
	assert.IsType(t, &CSVLoader{}, loader)

	loader, err = factory.GetLoader("data/book.xls")
	require.NoError(t, err)
	assert.IsType(t, &SpreadsheetLoader{}, loader)

	loader, err = factory.GetLoader("data/clip.mov")
	require.NoError(t, err)
	assert.IsType(t, &VideoLoader{}, loader)

	_, err = factory.GetLoader("data/image.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFactoryLoadUsesRegisteredLoader(t *testing.T) {
	factory := NewFactory(FactoryConfig{})
	stub := &stubLoader{segments: []Segment{{Text: "hello"}}}
	factory.SetLoader(StrategyAudio, stub)

	segments, err := factory.Load(context.Background(), "talk.wav")
	require.NoError(t, err)
	assert.Equal(t, []string{"talk.wav"}, stub.calls)
	assert.Equal(t, "hello", segments[0].Text)

	stub.err = errors.New("boom")
	_, err = factory.Load(context.Background(), "talk.mp3")
	assert.EqualError(t, err, "boom")
}

func TestUnstructuredLoader(t *testing.T) {
	ctx := context.Background()
	loader := NewUnstructuredLoader()

	t.Run("text file yields one segment", func(t *testing.T) {
		path := createTempFile(t, "Olá mundo.\n\nSegundo parágrafo.", ".txt")

		segments, err := loader.Load(ctx, path)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "Olá mundo.\n\nSegundo parágrafo.", segments[0].Text)
		assert.Equal(t, path, segments[0].Metadata["source"])
		assert.Equal(t, "plaintext", segments[0].Metadata["type"])
		assert.Contains(t, segments[0].Metadata["content_type"], "text/plain")
	})

	t.Run("pdf yields one segment per page", func(t *testing.T) {
		path := createTempPDF(t, "Page one text", "Page two text")

		segments, err := loader.Load(ctx, path)
		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, 1, segments[0].Metadata["page"])
		assert.Equal(t, 2, segments[1].Metadata["page"])
		assert.Equal(t, "pdf", segments[1].Metadata["type"])
		assert.Equal(t, "application/pdf", segments[1].Metadata["content_type"])
		assert.Contains(t, segments[1].Text, "Page two")
	})

	t.Run("empty file is an error naming the path", func(t *testing.T) {
		path := createTempFile(t, "   \n\n", ".md")

		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, ErrEmptyContent)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("parser failure carries the path", func(t *testing.T) {
		path := createTempFile(t, "garbage", ".docx")

		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := loader.Load(cctx, createTempFile(t, "text", ".txt"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
