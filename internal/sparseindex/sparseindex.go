// Package sparseindex writes the optional record index emitted at split
// boundaries.
//
// The index is plain ASCII text, one line per split boundary, in the form
// "<record>\t<offset>\n" where offset is the absolute position in the input
// stream of the byte immediately after the record's terminating line feed.
// Seeking the input to that offset lands exactly on the first byte of the
// next record.
package sparseindex

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// indexFileMode is the permission set for a newly created index file.
const indexFileMode = 0o644

// ErrExists reports that the index destination is already occupied. The
// index is never written over an existing file.
var ErrExists = errors.New("index file already exists")

// Writer appends record/offset entries to an exclusively created index file.
type Writer struct {
	path    string
	f       *os.File
	bw      *bufio.Writer
	entries int64
	closed  bool
}

// Create opens path for exclusive writing. It fails with ErrExists when the
// path is already taken.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, indexFileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrExists, path)
		}

		return nil, fmt.Errorf("sparseindex: create %s: %w", path, err)
	}

	return &Writer{path: path, f: f, bw: bufio.NewWriter(f)}, nil
}

// Add appends one entry for the record that ended at the given absolute
// input offset.
func (w *Writer) Add(record, offset int64) error {
	if _, err := fmt.Fprintf(w.bw, "%d\t%d\n", record, offset); err != nil {
		return fmt.Errorf("sparseindex: write entry %d: %w", record, err)
	}

	w.entries++

	return nil
}

// Entries reports how many entries have been added so far.
func (w *Writer) Entries() int64 { return w.entries }

// Path returns the index file's path.
func (w *Writer) Path() string { return w.path }

// Close flushes buffered entries and closes the file. Calling it again is a
// no-op, so cleanup paths may close unconditionally.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true

	if err := w.bw.Flush(); err != nil {
		_ = w.f.Close()

		return fmt.Errorf("sparseindex: flush %s: %w", w.path, err)
	}

	if err := w.f.Close(); err != nil {
		return fmt.Errorf("sparseindex: close %s: %w", w.path, err)
	}

	return nil
}
