package redaction

import (
	"io"
	"sync"
)

// Writer redacts everything written through it. It is safe for concurrent
// use; log handlers share one Writer across goroutines.
type Writer struct {
	mu       sync.Mutex
	w        io.Writer
	redactor *Redactor
}

// NewWriter wraps w. A nil redactor passes writes through unchanged.
func NewWriter(w io.Writer, r *Redactor) *Writer {
	return &Writer{w: w, redactor: r}
}

// Write implements io.Writer. It reports len(p) on success even when the
// redacted output has a different length.
func (w *Writer) Write(p []byte) (int, error) {
	out := p
	if w.redactor != nil {
		out = []byte(w.redactor.ScrubString(string(p)))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
