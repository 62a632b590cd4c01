// Package debug formats tree structures as indented text for diagnostics.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates one line per tree node, children indented by two
// spaces per level.
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

// Field writes "label: value" line. Present values are quoted so empty string
// is distinguishable from missing one, which prints as <none>.
func (tw TreeWriter) Field(depth int, label, value string, present bool) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	if present {
		tw.w.WriteString(strconv.Quote(value))
	} else {
		tw.w.WriteString("<none>")
	}
	tw.w.WriteByte('\n')
}
