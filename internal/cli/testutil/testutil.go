// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/driftlabs/driftguard/internal/cli/output"
)

// WriteCSV writes a CSV file into dir and returns its path.
func WriteCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// SetupTestDatasets creates a temporary reference/current dataset pair with
// identical distributions. Returns the two file paths.
func SetupTestDatasets(t *testing.T) (referencePath, currentPath string) {
	t.Helper()

	tmpDir := t.TempDir()
	rows := []string{"feature1,feature2,target"}
	for i := 0; i < 40; i++ {
		rows = append(rows, fmt.Sprintf("%d,%d,%d", i, i*2, i%2))
	}
	content := strings.Join(rows, "\n") + "\n"

	referencePath = WriteCSV(t, tmpDir, "reference.csv", content)
	currentPath = WriteCSV(t, tmpDir, "current.csv", content)
	return referencePath, currentPath
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// tWriter forwards log output to the test log.
type tWriter struct {
	t *testing.T
}

func (w tWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// NewTestLogger returns a logger whose output lands in the test log, so
// failures show the structured context without polluting passing runs.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
