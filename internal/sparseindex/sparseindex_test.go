package sparseindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_WritesTabSeparatedEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.idx")

	w, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, w.Add(2, 12))
	require.NoError(t, w.Add(4, 24))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2\t12\n4\t24\n", string(content))
	assert.Equal(t, int64(2), w.Entries())
}

func TestCreate_RefusesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.idx")
	require.NoError(t, os.WriteFile(path, []byte("precious"), 0o644))

	w, err := Create(path)
	require.Nil(t, w)
	require.ErrorIs(t, err, ErrExists)
	assert.Contains(t, err.Error(), path)

	// The original file survives the refused create.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(content))
}

func TestCreate_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope", "data.idx")

	w, err := Create(path)
	require.Nil(t, w)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrExists)
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.idx")

	w, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, w.Add(100000, 7340032))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "100000\t7340032\n", string(content))
}

func TestWriter_EntriesBufferedUntilClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.idx")

	w, err := Create(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.Add(2, 12))
	assert.Equal(t, path, w.Path())

	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
