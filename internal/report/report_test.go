package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	// Deterministic output regardless of the terminal running the tests.
	color.NoColor = true
}

func sampleSummary() Summary {
	return Summary{
		Input:        "data.csv",
		Records:      5,
		Files:        3,
		BytesIn:      1536,
		BytesOut:     1536,
		IndexPath:    "data.idx",
		IndexEntries: 2,
		Elapsed:      "12ms",
	}
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	require.NoError(t, Render(&out, FormatText, sampleSummary()))

	assert.Contains(t, out.String(), "Processed 5 records into 3 files")
	assert.Contains(t, out.String(), "Read 1.5 KiB, wrote 1.5 KiB in 12ms")
	assert.Contains(t, out.String(), "Index data.idx holds 2 entries")
}

func TestRender_TextOmitsAbsentIndex(t *testing.T) {
	t.Parallel()

	s := sampleSummary()
	s.IndexPath = ""
	s.IndexEntries = 0

	var out strings.Builder

	require.NoError(t, Render(&out, FormatText, s))
	assert.NotContains(t, out.String(), "Index")
}

func TestRender_EmptyFormatMeansText(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	require.NoError(t, Render(&out, "", sampleSummary()))
	assert.Contains(t, out.String(), "Processed 5 records into 3 files")
}

func TestRender_Table(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	require.NoError(t, Render(&out, FormatTable, sampleSummary()))

	assert.Contains(t, out.String(), "records")
	assert.Contains(t, out.String(), "data.csv")
	assert.Contains(t, out.String(), "1.5 KiB")
}

func TestRender_JSONRoundTrips(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	require.NoError(t, Render(&out, FormatJSON, sampleSummary()))

	var decoded Summary

	require.NoError(t, json.Unmarshal([]byte(out.String()), &decoded))
	assert.Equal(t, sampleSummary(), decoded)
}

func TestRender_JSONOmitsEmptyIndexFields(t *testing.T) {
	t.Parallel()

	s := sampleSummary()
	s.IndexPath = ""
	s.IndexEntries = 0

	var out strings.Builder

	require.NoError(t, Render(&out, FormatJSON, s))
	assert.NotContains(t, out.String(), "index_path")
	assert.NotContains(t, out.String(), "index_entries")
}

func TestRender_YAMLRoundTrips(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	require.NoError(t, Render(&out, FormatYAML, sampleSummary()))

	var decoded Summary

	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &decoded))
	assert.Equal(t, sampleSummary(), decoded)
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	err := Render(&out, "xml", sampleSummary())
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Empty(t, out.String())
}

func TestRenderCount_Text(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	s := CountSummary{Input: "data.csv", Records: 42, Bytes: 2048, Elapsed: "3ms"}

	require.NoError(t, RenderCount(&out, FormatText, s))
	assert.Equal(t, "Counted 42 records in 2.0 KiB (3ms)\n", out.String())
}

func TestRenderCount_FormatsMatchSplitSummary(t *testing.T) {
	t.Parallel()

	s := CountSummary{Input: "data.csv", Records: 42, Bytes: 2048, Elapsed: "3ms"}

	for _, format := range Formats() {
		var out strings.Builder

		require.NoError(t, RenderCount(&out, format, s), "format %s", format)
		assert.NotEmpty(t, out.String(), "format %s", format)
	}

	var out strings.Builder

	require.ErrorIs(t, RenderCount(&out, "csv", s), ErrUnknownFormat)
}
