// Package output renders command results as text, markdown or JSON.
// Auto mode picks text on a terminal and markdown when piped, so scripted
// invocations get stable, parseable output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Mode selects the rendering style.
type Mode string

const (
	// ModeAuto is text on a TTY, markdown otherwise.
	ModeAuto Mode = "auto"
	// ModeText renders styled tables for humans.
	ModeText Mode = "text"
	// ModeMarkdown renders pipe tables for pipes and docs.
	ModeMarkdown Mode = "markdown"
	// ModeJSON renders machine-readable JSON.
	ModeJSON Mode = "json"
)

// Renderer writes command output in one mode.
type Renderer struct {
	out  io.Writer
	errW io.Writer
	mode Mode
}

// NewRenderer creates a renderer. An empty or unknown mode falls back to
// auto.
func NewRenderer(out, errW io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}
	return &Renderer{out: out, errW: errW, mode: mode}
}

// EffectiveMode resolves auto against the output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes a full table; rows are never truncated.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	h := make(table.Row, len(header))
	for i, c := range header {
		h[i] = c
	}
	t.AppendHeader(h)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Println writes a line to the output stream.
func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

// Warning writes a warning to the error stream.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintf(r.errW, "Warning: %s\n", msg)
}

// Success writes a confirmation line to the output stream.
func (r *Renderer) Success(msg string) {
	fmt.Fprintf(r.out, "✓ %s\n", msg)
}
