// Package report renders the end-of-run summary in the supported output
// formats.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/csvfang/pkg/safeconv"
)

// Supported summary formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned when the requested format is not one of the
// supported names.
var ErrUnknownFormat = errors.New("unknown summary format")

// Formats lists the supported format names for flag help text.
func Formats() []string {
	return []string{FormatText, FormatTable, FormatJSON, FormatYAML}
}

// Summary is the renderable outcome of a splitting run.
type Summary struct {
	Input        string `json:"input"                   yaml:"input"`
	Records      int64  `json:"records"                 yaml:"records"`
	Files        int64  `json:"files"                   yaml:"files"`
	BytesIn      int64  `json:"bytes_in"                yaml:"bytes_in"`
	BytesOut     int64  `json:"bytes_out"               yaml:"bytes_out"`
	IndexPath    string `json:"index_path,omitempty"    yaml:"index_path,omitempty"`
	IndexEntries int64  `json:"index_entries,omitempty" yaml:"index_entries,omitempty"`
	Elapsed      string `json:"elapsed"                 yaml:"elapsed"`
}

// CountSummary is the renderable outcome of a scan-only pass.
type CountSummary struct {
	Input   string `json:"input"   yaml:"input"`
	Records int64  `json:"records" yaml:"records"`
	Bytes   int64  `json:"bytes"   yaml:"bytes"`
	Elapsed string `json:"elapsed" yaml:"elapsed"`
}

// Render writes the splitting summary to w in the requested format. An empty
// format means text.
func Render(w io.Writer, format string, s Summary) error {
	switch format {
	case FormatText, "":
		return renderText(w, s)
	case FormatTable:
		return renderTable(w, summaryRows(s))
	case FormatJSON:
		return renderJSON(w, s)
	case FormatYAML:
		return renderYAML(w, s)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// RenderCount writes the scan-only summary to w in the requested format.
func RenderCount(w io.Writer, format string, s CountSummary) error {
	switch format {
	case FormatText, "":
		return renderCountText(w, s)
	case FormatTable:
		return renderTable(w, countRows(s))
	case FormatJSON:
		return renderJSON(w, s)
	case FormatYAML:
		return renderYAML(w, s)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderText(w io.Writer, s Summary) error {
	count := color.New(color.FgCyan)

	_, err := fmt.Fprintf(w, "Processed %s records into %s files\n",
		count.Sprintf("%d", s.Records), count.Sprintf("%d", s.Files))
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	_, err = fmt.Fprintf(w, "Read %s, wrote %s in %s\n",
		humanBytes(s.BytesIn), humanBytes(s.BytesOut), s.Elapsed)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	if s.IndexPath != "" {
		_, err = fmt.Fprintf(w, "Index %s holds %d entries\n", s.IndexPath, s.IndexEntries)
		if err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
	}

	return nil
}

func renderCountText(w io.Writer, s CountSummary) error {
	count := color.New(color.FgCyan)

	_, err := fmt.Fprintf(w, "Counted %s records in %s (%s)\n",
		count.Sprintf("%d", s.Records), humanBytes(s.Bytes), s.Elapsed)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	return nil
}

func summaryRows(s Summary) []table.Row {
	rows := []table.Row{
		{"input", s.Input},
		{"records", s.Records},
		{"files", s.Files},
		{"bytes in", humanBytes(s.BytesIn)},
		{"bytes out", humanBytes(s.BytesOut)},
	}

	if s.IndexPath != "" {
		rows = append(rows,
			table.Row{"index", s.IndexPath},
			table.Row{"index entries", s.IndexEntries})
	}

	return append(rows, table.Row{"elapsed", s.Elapsed})
}

func countRows(s CountSummary) []table.Row {
	return []table.Row{
		{"input", s.Input},
		{"records", s.Records},
		{"bytes", humanBytes(s.Bytes)},
		{"elapsed", s.Elapsed},
	}
}

func renderTable(w io.Writer, rows []table.Row) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"field", "value"})

	for _, row := range rows {
		tbl.AppendRow(row)
	}

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return fmt.Errorf("render summary table: %w", err)
	}

	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode summary as JSON: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode summary as YAML: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

func humanBytes(n int64) string {
	return humanize.IBytes(safeconv.MustInt64ToUint64(n))
}
