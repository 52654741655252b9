// Package debug has helpers producing human readable dumps of program
// structures for troubleshooting.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"tocgen/toc"
)

// TreeWriter accumulates indented lines, two spaces per depth level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Toc writes table of contents tree: one line per entry with its level,
// title and link. Entry level is printed as stored, so levels which do
// not match tree depth are easy to spot.
func (tw TreeWriter) Toc(t *toc.Toc) {
	tw.Line(0, "toc: %d entries, depth %d, empty %t", t.Len(), t.Depth(), t.IsEmpty())
	t.Walk(func(e *toc.Entry, depth int) bool {
		tw.Line(depth, "[%d] %s -> %s", e.Level, encodeText(e.Title), encodeText(e.Link))
		return true
	})
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
