package split

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/csvfang/internal/outfile"
	"github.com/Sumatoshi-tech/csvfang/internal/sparseindex"
)

func newTestWriter(dir string, n int64) *Writer {
	alloc := outfile.NewAllocator(filepath.Join(dir, "data.csv"), "", "")

	return NewWriter(WriterConfig{Alloc: alloc, RecordsPerFile: n})
}

func TestWriter_RotatesEveryNthRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWriter(dir, 2)

	require.NoError(t, w.Start())
	require.NoError(t, w.Consume([]byte("a\nb\nc\n")))
	require.NoError(t, w.Finish())

	assert.Equal(t, int64(2), w.Files())
	assert.Equal(t, int64(3), w.TotalRecords())
	assert.Equal(t, int64(6), w.BytesIn())
	assert.Equal(t, int64(6), w.BytesOut())

	first, err := os.ReadFile(filepath.Join(dir, "data_000001.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "data_000002.csv"))
	require.NoError(t, err)
	assert.Equal(t, "c\n", string(second))
}

func TestWriter_ByteAtATimeMatchesWholeChunk(t *testing.T) {
	t.Parallel()

	input := []byte("1,\"a\nb\",c\n2,\"d\"\"e\",f\r\n3,g,h\ntail")

	wholeDir := t.TempDir()
	whole := newTestWriter(wholeDir, 2)
	require.NoError(t, whole.Start())
	require.NoError(t, whole.Consume(input))
	require.NoError(t, whole.Finish())

	byteDir := t.TempDir()
	single := newTestWriter(byteDir, 2)
	require.NoError(t, single.Start())

	for i := range input {
		require.NoError(t, single.Consume(input[i : i+1]))
	}

	require.NoError(t, single.Finish())

	assert.Equal(t, whole.Files(), single.Files())
	assert.Equal(t, whole.TotalRecords(), single.TotalRecords())

	entries, err := os.ReadDir(wholeDir)
	require.NoError(t, err)

	for _, e := range entries {
		a, err := os.ReadFile(filepath.Join(wholeDir, e.Name()))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(byteDir, e.Name()))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "split %s differs by chunking", e.Name())
	}
}

func TestWriter_OnRotateReportsRecordsAndOffset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	alloc := outfile.NewAllocator(filepath.Join(dir, "data.csv"), "", "")

	type rotation struct {
		records int64
		offset  int64
	}

	var seen []rotation

	w := NewWriter(WriterConfig{
		Alloc:          alloc,
		RecordsPerFile: 1,
		OnRotate: func(_ string, records, offset int64) {
			seen = append(seen, rotation{records, offset})
		},
	})

	require.NoError(t, w.Start())
	require.NoError(t, w.Consume([]byte("x\ny\n")))
	require.NoError(t, w.Finish())

	assert.Equal(t, []rotation{{1, 2}, {2, 4}}, seen)
	assert.Equal(t, int64(3), w.Files())
}

func TestWriter_IndexEntryPerRotation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	idxPath := filepath.Join(dir, "data.idx")

	idx, err := sparseindex.Create(idxPath)
	require.NoError(t, err)

	alloc := outfile.NewAllocator(filepath.Join(dir, "data.csv"), "", "")
	w := NewWriter(WriterConfig{Alloc: alloc, Index: idx, RecordsPerFile: 2})

	require.NoError(t, w.Start())
	require.NoError(t, w.Consume([]byte("a\nb\nc\nd\n")))
	require.NoError(t, w.Finish())
	require.NoError(t, idx.Close())

	content, err := os.ReadFile(idxPath)
	require.NoError(t, err)
	assert.Equal(t, "2\t4\n4\t8\n", string(content))
}

func TestWriter_LifecycleWithoutStart(t *testing.T) {
	t.Parallel()

	w := NewWriter(WriterConfig{RecordsPerFile: 2})

	assert.NoError(t, w.Finish())
	assert.NoError(t, w.Close())
	assert.Zero(t, w.Files())
}

func TestWriter_CloseAfterFinishIsNoOp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWriter(dir, 2)

	require.NoError(t, w.Start())
	require.NoError(t, w.Consume([]byte("a\n")))
	require.NoError(t, w.Finish())
	assert.NoError(t, w.Close())

	// BytesOut is not double-counted by the second close.
	assert.Equal(t, int64(2), w.BytesOut())
}
