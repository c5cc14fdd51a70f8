package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes strings verbatim, such as Markdown, and falls back to
// YAML for structured values. Items are separated by a blank line.
type TextWriter struct {
	w       *bufio.Writer
	written int
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes a single item.
func (w *TextWriter) Write(data any) error {
	if w.written > 0 {
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}
	w.written++

	var text string
	switch v := data.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	case fmt.Stringer:
		text = v.String()
	default:
		return encodeYAML(w.w, v)
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := w.w.WriteString(text)
	return err
}

// WriteAll writes multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
