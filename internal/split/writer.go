// Package split slices a record stream into bounded output files.
//
// The Writer consumes input chunks, finds record boundaries with the scan
// package, and rotates to a fresh output file every recordsPerFile records.
// Rotation is eager: the next file is opened the moment the boundary is
// crossed, so input that ends exactly on a boundary leaves a final empty
// split file. Bytes pass through untouched, so concatenating the split files
// in sequence order reproduces the input exactly.
package split

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/csvfang/internal/outfile"
	"github.com/Sumatoshi-tech/csvfang/internal/scan"
	"github.com/Sumatoshi-tech/csvfang/internal/sparseindex"
)

// WriterConfig holds the collaborators and policy for a Writer.
type WriterConfig struct {
	Alloc *outfile.Allocator

	// Index receives one entry per rotation. When nil, no index is written.
	Index *sparseindex.Writer

	// RecordsPerFile is the rotation period. Must be positive.
	RecordsPerFile int64

	// Compress routes output through an LZ4 frame writer per split file.
	Compress bool

	// OnRotate, when set, is called after the next split file is opened with
	// its path, the records written so far, and the input offset just past
	// the terminating line feed.
	OnRotate func(path string, records, offset int64)
}

// Writer owns the currently open split file and the record counter. Exactly
// one output handle is open at a time.
type Writer struct {
	alloc          *outfile.Allocator
	index          *sparseindex.Writer
	recordsPerFile int64
	compress       bool
	onRotate       func(path string, records, offset int64)

	counter  scan.Counter
	cur      *splitFile
	seq      int64
	files    int64
	bytesOut int64
}

// NewWriter returns a Writer that is not yet attached to an output file;
// call Start before the first Consume.
func NewWriter(cfg WriterConfig) *Writer {
	return &Writer{
		alloc:          cfg.Alloc,
		index:          cfg.Index,
		recordsPerFile: cfg.RecordsPerFile,
		compress:       cfg.Compress,
		onRotate:       cfg.OnRotate,
	}
}

// Start opens the first split file.
func (w *Writer) Start() error {
	w.seq = 1

	f, path, err := w.alloc.Create(w.seq)
	if err != nil {
		return fmt.Errorf("open first split file: %w", err)
	}

	w.cur = newSplitFile(f, path, w.compress)
	w.files = 1

	return nil
}

// Consume scans one input chunk, writing completed segments to the current
// split file and rotating at every boundary that lands on the rotation
// period. The chunk is fully written out before Consume returns, so memory
// use is bounded by the chunk size.
func (w *Writer) Consume(chunk []byte) error {
	start := 0

	for i := 0; i < len(chunk); i++ {
		if !w.counter.Scan(chunk[i]) {
			continue
		}

		records := w.counter.Records()
		if records%w.recordsPerFile != 0 {
			continue
		}

		if w.index != nil {
			if err := w.index.Add(records, w.counter.Bytes()); err != nil {
				return err
			}
		}

		// The terminating line feed stays with the file it closes.
		if err := w.cur.write(chunk[start : i+1]); err != nil {
			return err
		}

		start = i + 1

		if err := w.rotate(); err != nil {
			return err
		}
	}

	if start < len(chunk) {
		if err := w.cur.write(chunk[start:]); err != nil {
			return err
		}
	}

	return nil
}

// rotate closes the current split file and opens the next one.
func (w *Writer) rotate() error {
	if err := w.closeCurrent(); err != nil {
		return err
	}

	w.seq++

	f, path, err := w.alloc.Create(w.seq)
	if err != nil {
		return fmt.Errorf("open split file %d: %w", w.seq, err)
	}

	w.cur = newSplitFile(f, path, w.compress)
	w.files++

	if w.onRotate != nil {
		w.onRotate(path, w.counter.Records(), w.counter.Bytes())
	}

	return nil
}

// Finish closes the open split file. The chunk-level write-through in
// Consume means no residual bytes remain to flush here.
func (w *Writer) Finish() error {
	return w.closeCurrent()
}

// Close releases the open split file if Finish was not reached. Safe to call
// after Finish or on a Writer that never started.
func (w *Writer) Close() error {
	return w.closeCurrent()
}

func (w *Writer) closeCurrent() error {
	if w.cur == nil {
		return nil
	}

	cur := w.cur
	w.cur = nil

	err := cur.close()
	w.bytesOut += cur.written()

	if err != nil {
		return fmt.Errorf("close split file %s: %w", cur.path, err)
	}

	return nil
}

// TotalRecords reports the record count including a final unterminated
// record, if any.
func (w *Writer) TotalRecords() int64 { return w.counter.Total() }

// Files reports how many split files have been created.
func (w *Writer) Files() int64 { return w.files }

// BytesIn reports how many input bytes have been consumed.
func (w *Writer) BytesIn() int64 { return w.counter.Bytes() }

// BytesOut reports how many bytes reached disk across all closed split
// files. With compression enabled this is the compressed size.
func (w *Writer) BytesOut() int64 { return w.bytesOut }

// splitFile is one open output file plus the writer chain layered on top of
// it: byte counting against the file, optionally an LZ4 frame writer.
type splitFile struct {
	f    *os.File
	path string
	cnt  *countWriter
	lz   *lz4.Writer
}

func newSplitFile(f *os.File, path string, compress bool) *splitFile {
	sf := &splitFile{f: f, path: path, cnt: &countWriter{w: f}}
	if compress {
		sf.lz = lz4.NewWriter(sf.cnt)
	}

	return sf
}

func (sf *splitFile) write(p []byte) error {
	var err error
	if sf.lz != nil {
		_, err = sf.lz.Write(p)
	} else {
		_, err = sf.cnt.Write(p)
	}

	if err != nil {
		return fmt.Errorf("write split file %s: %w", sf.path, err)
	}

	return nil
}

// close finalizes the LZ4 frame, if any, then closes the file.
func (sf *splitFile) close() error {
	if sf.lz != nil {
		if err := sf.lz.Close(); err != nil {
			_ = sf.f.Close()

			return err
		}
	}

	return sf.f.Close()
}

// written reports the bytes that reached the underlying file.
func (sf *splitFile) written() int64 { return sf.cnt.n }

// countWriter counts bytes passing through to the wrapped writer.
type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
