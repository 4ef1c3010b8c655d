package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/csvfang/internal/scan"
	"github.com/Sumatoshi-tech/csvfang/pkg/textutil"
)

// CountOptions configures a scan-only pass over the input.
type CountOptions struct {
	InputPath      string
	ReadBufferSize int
	Logger         *slog.Logger
}

// CountResult reports what a scan-only pass saw.
type CountResult struct {
	Records int64
	Bytes   int64
	Elapsed time.Duration
}

// Count runs only the boundary scanner over the input and reports record and
// byte totals. Nothing is written; useful as a dry run before committing to
// a split of a very large file.
func Count(ctx context.Context, opts CountOptions) (CountResult, error) {
	readSize := opts.ReadBufferSize
	if readSize <= 0 {
		readSize = DefaultReadBufferSize
	}

	logger := loggerOrDiscard(opts.Logger)
	started := time.Now()

	in, err := openInput(opts.InputPath)
	if err != nil {
		return CountResult{}, err
	}

	defer func() {
		if cerr := in.Close(); cerr != nil {
			logger.Warn("close input", "path", opts.InputPath, "error", cerr)
		}
	}()

	var counter scan.Counter

	buf := make([]byte, readSize)

	for {
		if ctx.Err() != nil {
			return CountResult{}, fmt.Errorf("count interrupted: %w", ctx.Err())
		}

		n, rerr := in.Read(buf)
		if n > 0 && counter.Bytes() == 0 && textutil.IsBinary(buf[:n]) {
			logger.Warn("input looks binary", "path", opts.InputPath)
		}

		for i := 0; i < n; i++ {
			counter.Scan(buf[i])
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}

			return CountResult{}, fmt.Errorf("read input: %w", rerr)
		}
	}

	return CountResult{
		Records: counter.Total(),
		Bytes:   counter.Bytes(),
		Elapsed: time.Since(started),
	}, nil
}
