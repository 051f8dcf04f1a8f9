// Package debug formats program structures as indented text for the debug
// report.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxTextRunes limits how much of any text value goes into the dump.
const MaxTextRunes = 60

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	tw.w.WriteString(strings.Repeat("  ", depth))
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled quoted value, long values are shortened.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	if utf8.RuneCountInString(raw) > MaxTextRunes {
		runes := []rune(raw)
		return strconv.Quote(string(runes[:MaxTextRunes])) + "..."
	}
	return strconv.Quote(raw)
}
