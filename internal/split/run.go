package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/csvfang/internal/outfile"
	"github.com/Sumatoshi-tech/csvfang/internal/sparseindex"
	"github.com/Sumatoshi-tech/csvfang/pkg/textutil"
	"github.com/Sumatoshi-tech/csvfang/pkg/units"
)

// DefaultReadBufferSize is the input chunk size used when Options does not
// override it.
const DefaultReadBufferSize = units.MiB

// lz4Ext marks LZ4 frame files on both the input and output side.
const lz4Ext = ".lz4"

// ErrInvalidRecordsPerFile reports a non-positive rotation period.
var ErrInvalidRecordsPerFile = errors.New("records per split must be positive")

// Options configures one splitting run.
type Options struct {
	// InputPath is the record file to split. A .lz4 extension switches the
	// reader to LZ4 frame decoding; offsets then refer to the decompressed
	// stream.
	InputPath string

	// RecordsPerFile is the number of complete records per split file.
	RecordsPerFile int64

	// OutputDir receives the split files. Empty means beside the input.
	OutputDir string

	// IndexPath, when non-empty, enables the sparse index. The path must not
	// already exist.
	IndexPath string

	// ReadBufferSize is the input chunk size in bytes. Zero means
	// DefaultReadBufferSize.
	ReadBufferSize int

	// Compress writes each split file as an LZ4 frame with a .lz4 suffix.
	Compress bool

	// Progress, when set, receives the reading banner and one dot per
	// rotation.
	Progress io.Writer

	// Logger is the structured logger for the run. When nil, a discard
	// logger is used.
	Logger *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	Records      int64
	Files        int64
	BytesIn      int64
	BytesOut     int64
	IndexEntries int64
	Elapsed      time.Duration
}

// Run splits the input into files of RecordsPerFile complete records each.
//
// The input is read in fixed-size chunks on a single goroutine; cancellation
// is observed between chunks. On every exit path the input handle, the index
// handle, and the open split file are each closed exactly once. Output
// written before an error or cancellation is left in place.
//
// Nothing is created for empty input: no split file, no index file.
func Run(ctx context.Context, opts Options) (res Result, err error) {
	if opts.RecordsPerFile <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidRecordsPerFile, opts.RecordsPerFile)
	}

	readSize := opts.ReadBufferSize
	if readSize <= 0 {
		readSize = DefaultReadBufferSize
	}

	logger := loggerOrDiscard(opts.Logger)
	started := time.Now()

	in, err := openInput(opts.InputPath)
	if err != nil {
		return Result{}, err
	}

	defer func() {
		if cerr := in.Close(); cerr != nil {
			logger.Warn("close input", "path", opts.InputPath, "error", cerr)
		}
	}()

	extraExt := ""
	if opts.Compress {
		extraExt = lz4Ext
	}

	alloc := outfile.NewAllocator(outputNamePath(opts.InputPath), opts.OutputDir, extraExt)

	var (
		w     *Writer
		index *sparseindex.Writer
	)

	// Abort paths release whatever handles got opened; both closers are
	// no-ops after the normal shutdown below.
	defer func() {
		if w != nil {
			if cerr := w.Close(); cerr != nil {
				logger.Warn("close split file", "error", cerr)
			}
		}

		if index != nil {
			if cerr := index.Close(); cerr != nil {
				logger.Warn("close index", "path", index.Path(), "error", cerr)
			}
		}
	}()

	buf := make([]byte, readSize)

	for {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("split interrupted: %w", ctx.Err())
		}

		n, rerr := in.Read(buf)
		if n > 0 {
			// The index and the first split file are created only once the
			// input has proven non-empty, and the index comes first: a taken
			// index path aborts the run before any output exists.
			if w == nil {
				if textutil.IsBinary(buf[:n]) {
					logger.Warn("input looks binary", "path", opts.InputPath)
				}

				if opts.IndexPath != "" {
					index, err = sparseindex.Create(opts.IndexPath)
					if err != nil {
						return Result{}, fmt.Errorf("create index: %w", err)
					}
				}

				w = NewWriter(WriterConfig{
					Alloc:          alloc,
					Index:          index,
					RecordsPerFile: opts.RecordsPerFile,
					Compress:       opts.Compress,
					OnRotate: func(path string, records, offset int64) {
						if opts.Progress != nil {
							fmt.Fprint(opts.Progress, ".")
						}

						logger.Debug("opened next split file",
							"path", path, "records", records, "offset", offset)
					},
				})

				if err = w.Start(); err != nil {
					return Result{}, err
				}

				if opts.Progress != nil {
					fmt.Fprint(opts.Progress, "Reading... ")
				}
			}

			if err = w.Consume(buf[:n]); err != nil {
				return Result{}, err
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}

			return Result{}, fmt.Errorf("read input: %w", rerr)
		}
	}

	if w == nil {
		return Result{Elapsed: time.Since(started)}, nil
	}

	if opts.Progress != nil {
		fmt.Fprintln(opts.Progress)
	}

	if err = w.Finish(); err != nil {
		return Result{}, err
	}

	res = Result{
		Records:  w.TotalRecords(),
		Files:    w.Files(),
		BytesIn:  w.BytesIn(),
		BytesOut: w.BytesOut(),
		Elapsed:  time.Since(started),
	}

	if index != nil {
		res.IndexEntries = index.Entries()

		if err = index.Close(); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

// openInput opens path for reading, transparently decoding LZ4 frame files
// by extension.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	if filepath.Ext(path) == lz4Ext {
		return &lz4Input{r: lz4.NewReader(f), f: f}, nil
	}

	return f, nil
}

// outputNamePath strips a trailing .lz4 so split files of a compressed
// input are named after the decompressed payload.
func outputNamePath(path string) string {
	return strings.TrimSuffix(path, lz4Ext)
}

// lz4Input pairs an LZ4 frame reader with the file it drains.
type lz4Input struct {
	r *lz4.Reader
	f *os.File
}

func (in *lz4Input) Read(p []byte) (int, error) { return in.r.Read(p) }

func (in *lz4Input) Close() error { return in.f.Close() }

// loggerOrDiscard returns l, or a discard logger when nil.
func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
