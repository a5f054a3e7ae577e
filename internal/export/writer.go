package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

// Writer appends rendered asset rows to an output stream. The header is
// written before the first row, or by an explicit WriteHeader.
type Writer struct {
	w       *bufio.Writer
	header  bool
	written int
}

// NewWriter wraps w. The caller owns w and closes it after Flush.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line once.
func (w *Writer) WriteHeader() error {
	if w.header {
		return nil
	}
	if _, err := fmt.Fprintln(w.w, Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.header = true
	return nil
}

// WriteAsset appends one line per serial number and returns the number of
// lines written. The buffer is flushed so each document's rows are durable
// before the next document is processed.
func (w *Writer) WriteAsset(a entity.Asset) (int, error) {
	if err := w.WriteHeader(); err != nil {
		return 0, err
	}
	lines := Render(a)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.w, line); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.w.Flush(); err != nil {
		return 0, fmt.Errorf("flush rows: %w", err)
	}
	w.written += len(lines)
	return len(lines), nil
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Written is the number of data rows written so far.
func (w *Writer) Written() int {
	return w.written
}
