// Package jsonl writes visits as JSON Lines: one object per line.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

const bufferSize = 4 << 20

// Stdout is the output path that selects standard output.
const Stdout = "-"

// Writer is a buffered JSON Lines visit sink. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	count  int
}

// NewWriter wraps w. Close flushes but does not close w.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriterSize(w, bufferSize)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Create truncates or creates the file at path, creating parent directories
// as needed. The path "-" writes to standard output.
func Create(path string) (*Writer, error) {
	if path == Stdout {
		return NewWriter(os.Stdout), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonl: create dir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("jsonl: create %s: %w", path, err)
	}

	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Write encodes one visit followed by a newline.
func (w *Writer) Write(v domain.Visit) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.write(v)
}

// WriteVisits encodes a batch of visits. It returns the number written
// before the first failure.
func (w *Writer) WriteVisits(ctx context.Context, visits []domain.Visit) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, v := range visits {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := w.write(v); err != nil {
			return i, err
		}
	}
	return len(visits), nil
}

func (w *Writer) write(v domain.Visit) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("jsonl: encode visit %d: %w", w.count+1, err)
	}
	w.count++
	return nil
}

// Count returns the number of visits written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("jsonl: flush: %w", err)
	}
	return nil
}

// Close flushes and closes the file opened by Create.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if err := w.buf.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("jsonl: flush: %w", err))
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("jsonl: close: %w", err))
		}
		w.closer = nil
	}
	return errors.Join(errs...)
}
