// Package textio provides a small indented text writer used for
// human-readable graph dumps.
package textio

import (
	"strconv"
	"strings"
)

const defaultTabString = "    "

// Writer accumulates indented text in memory. Methods chain.
type Writer struct {
	buf         strings.Builder
	tab         string
	indent      int
	needsIndent bool
	precision   int
}

// NewWriter creates a writer with a four-space tab. Floats default to the
// shortest representation that round-trips.
func NewWriter() *Writer {
	return &Writer{
		tab:       defaultTabString,
		precision: -1,
	}
}

// SetTabString replaces the string written per indent level.
func (w *Writer) SetTabString(tab string) *Writer {
	w.tab = tab
	return w
}

// SetPrecision sets the number of significant digits for WriteFloat.
func (w *Writer) SetPrecision(precision int) *Writer {
	w.precision = precision
	return w
}

// Write writes a string at the current indent level.
func (w *Writer) Write(value string) *Writer {
	w.writeIndent()
	w.buf.WriteString(value)
	return w
}

// WriteInt writes an integer at the current indent level.
func (w *Writer) WriteInt(value int) *Writer {
	w.writeIndent()
	w.buf.WriteString(strconv.Itoa(value))
	return w
}

// WriteFloat writes a float at the current indent level.
func (w *Writer) WriteFloat(value float64) *Writer {
	w.writeIndent()
	w.buf.WriteString(strconv.FormatFloat(value, 'g', w.precision, 64))
	return w
}

// WriteRaw writes a string without triggering the pending indent. If
// indentCount is positive that many tabs are written first.
func (w *Writer) WriteRaw(value string, indentCount int) *Writer {
	for i := 0; i < indentCount; i++ {
		w.buf.WriteString(w.tab)
	}
	w.buf.WriteString(value)
	return w
}

// WriteNewLine terminates the current line; the next write is indented.
func (w *Writer) WriteNewLine() *Writer {
	w.buf.WriteByte('\n')
	w.needsIndent = true
	return w
}

// IncreaseIndent adds one indent level.
func (w *Writer) IncreaseIndent() *Writer {
	w.indent++
	return w
}

// DecreaseIndent removes one indent level, stopping at zero.
func (w *Writer) DecreaseIndent() *Writer {
	if w.indent > 0 {
		w.indent--
	}
	return w
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.buf.String()
}

func (w *Writer) writeIndent() {
	if !w.needsIndent {
		return
	}
	for i := 0; i < w.indent; i++ {
		w.buf.WriteString(w.tab)
	}
	w.needsIndent = false
}
