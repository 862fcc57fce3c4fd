package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/rag-pipeline/config"
	"github.com/fyerfyer/rag-pipeline/internal/llm"
	"github.com/fyerfyer/rag-pipeline/internal/services"
)

func TestFormatsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "ragqa.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("max_file_size_mb: 50\n"), 0644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"formats", "--config", cfgFile, "--env-file", filepath.Join(dir, "missing.env")})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), ".pdf")
	assert.Contains(t, out.String(), ".mp4")
	assert.Contains(t, out.String(), "max file size: 50 MB")
}

func TestFormatsCommandBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"formats", "--config", filepath.Join(t.TempDir(), "nope.yaml")})

	assert.Error(t, cmd.Execute())
}

func TestMissingAPIKeyFailsBeforeStoreIsOpened(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("QDRANT_PATH", store)
	t.Setenv("DATABASE_DSN", "")

	for _, args := range [][]string{{"ask", "hello"}, {"ingest", "notes.txt"}} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append(args, "--env-file", filepath.Join(dir, "missing.env")))

		err := cmd.Execute()
		require.Error(t, err, "args %v", args)
		assert.True(t, errors.Is(err, config.ErrMissingAPIKey), "args %v: %v", args, err)

		var initErr *services.InitError
		require.True(t, errors.As(err, &initErr))
		assert.Equal(t, services.StateValidatingConfig, initErr.Stage)
	}

	assert.NoFileExists(t, filepath.Join(store, "ingest.db"))
	assert.NoDirExists(t, store)
}

func TestCommandArgs(t *testing.T) {
	for _, args := range [][]string{{"ingest"}, {"ask"}, {"serve", "extra"}} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "args %v", args)
	}
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &services.IngestReport{
		Files:    2,
		Segments: 5,
		Chunks:   9,
		Failures: []services.FileFailure{{Path: "notes.rtf", Err: errors.New("unsupported file type")}},
	})

	assert.Contains(t, out.String(), "files: 2  segments: 5  chunks: 9")
	assert.Contains(t, out.String(), "skipped notes.rtf: unsupported file type")
}

func TestPrintAnswer(t *testing.T) {
	var out bytes.Buffer
	printAnswer(&out, &services.QAResult{
		Answer:  "Paris",
		Sources: []llm.SourceReference{{Source: "geo.txt", Score: 0.91}},
	})

	assert.Contains(t, out.String(), "Paris\n")
	assert.Contains(t, out.String(), "[1] geo.txt (score 0.910)")

	out.Reset()
	printAnswer(&out, &services.QAResult{Answer: "no"})
	assert.Equal(t, "no\n", out.String())
}
