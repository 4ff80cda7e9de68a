package newick

import (
	"bufio"
	"io"
)

// A Writer writes trees in Newick format, one tree per line.
type Writer struct {
	buf *bufio.Writer
}

// NewWriter creates a new Newick writer that writes trees to an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		buf: bufio.NewWriter(w),
	}
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Write writes a single tree to the underlying io.Writer. A sub-tree is
// written as if it were a tree of its own.
//
// You may need to call Flush in order for the changes to be written.
func (w *Writer) Write(t *Tree) error {
	s := t.Newick()
	if !t.IsRoot() {
		s += string(terminal)
	}
	_, err := w.buf.WriteString(s + "\n")
	return err
}

// WriteAll writes a slice of trees to the underyling io.Writer, and calls
// Flush.
func (w *Writer) WriteAll(trees []*Tree) error {
	for _, t := range trees {
		if err := w.Write(t); err != nil {
			return err
		}
	}
	return w.Flush()
}
