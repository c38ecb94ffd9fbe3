package textio

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestWriter(t *testing.T) {
	t.Run("indents after a newline", func(t *testing.T) {
		w := NewWriter()
		w.Write("root").WriteNewLine()
		w.IncreaseIndent()
		w.Write("child").WriteNewLine()
		w.DecreaseIndent()
		w.Write("root2").WriteNewLine()

		assert.Equal(t, "root\n    child\nroot2\n", w.String())
	})

	t.Run("nested indent levels", func(t *testing.T) {
		w := NewWriter().SetTabString("\t")
		w.Write("a").WriteNewLine()
		w.IncreaseIndent().IncreaseIndent()
		w.Write("b").WriteNewLine()

		assert.Equal(t, "a\n\t\tb\n", w.String())
	})

	t.Run("decrease stops at zero", func(t *testing.T) {
		w := NewWriter()
		w.DecreaseIndent().DecreaseIndent()
		w.Write("a").WriteNewLine()
		w.IncreaseIndent()
		w.Write("b")

		assert.Equal(t, "a\n    b", w.String())
	})

	t.Run("raw writes skip the pending indent", func(t *testing.T) {
		w := NewWriter()
		w.IncreaseIndent()
		w.Write("a").WriteNewLine()
		w.WriteRaw("raw", 0)
		w.WriteRaw("tabbed", 2)

		assert.Equal(t, "a\nraw        tabbed", w.String())
	})

	t.Run("numbers", func(t *testing.T) {
		w := NewWriter()
		w.WriteInt(42).Write(" ").WriteFloat(0.5)
		assert.Equal(t, "42 0.5", w.String())
	})

	t.Run("float precision", func(t *testing.T) {
		w := NewWriter().SetPrecision(3)
		w.WriteFloat(1.0 / 3.0)
		assert.Equal(t, "0.333", w.String())
	})
}
