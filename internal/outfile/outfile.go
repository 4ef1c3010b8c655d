// Package outfile names and creates split output files.
//
// Candidate names insert a zero-padded sequence number before the input
// file's extension (data.csv becomes data_000001.csv). Files are always
// created exclusively; when a candidate already exists the allocator appends
// an incrementing disambiguator (_1, _2, ...) and retries, so a pre-existing
// file is never truncated or overwritten.
package outfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// seqWidth is the zero-padding width of the sequence number inserted into
// split filenames.
const seqWidth = 6

// outFileMode is the permission set for newly created split files.
const outFileMode = 0o644

// Allocator constructs collision-free paths for split output files and
// creates them exclusively.
type Allocator struct {
	dir  string
	base string
	ext  string
}

// NewAllocator returns an allocator that places split files next to
// inputPath, or inside outputDir when it is non-empty. extraExt is appended
// after the input's own extension on every candidate name (".lz4" for
// compressed output, empty otherwise).
func NewAllocator(inputPath, outputDir, extraExt string) *Allocator {
	base, ext := splitName(filepath.Base(inputPath))

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}

	return &Allocator{
		dir:  dir,
		base: base,
		ext:  ext + extraExt,
	}
}

// splitName separates a filename into base and extension. A name that is all
// dots before the extension is a dotfile such as .csv; its leading dot
// belongs to the name, not to an extension, so the whole name is the base.
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)

	base := strings.TrimSuffix(name, ext)
	if strings.Trim(base, ".") == "" {
		return name, ""
	}

	return base, ext
}

// Create opens the split file for sequence number seq. On a name collision
// the candidate gets an incrementing _1, _2, ... suffix before the extension
// until an exclusive create succeeds. It returns the open handle together
// with the path it ended up with.
func (a *Allocator) Create(seq int64) (*os.File, string, error) {
	stem := filepath.Join(a.dir, fmt.Sprintf("%s_%0*d", a.base, seqWidth, seq))

	path := stem + a.ext
	for retry := 1; ; retry++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, outFileMode)
		if err == nil {
			return f, path, nil
		}

		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("outfile: create %s: %w", path, err)
		}

		path = fmt.Sprintf("%s_%d%s", stem, retry, a.ext)
	}
}
