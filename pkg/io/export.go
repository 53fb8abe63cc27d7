package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/table"
)

// Output formats.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatCSV:  true,
	FormatTSV:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, csv, tsv, json)", format)
	}
	return nil
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ValidFormats[ext] {
		return ext
	}
	return FormatText
}

// Write renders t to w in the given format.
func Write(w io.Writer, t table.Tabular, format string) error {
	switch format {
	case FormatText:
		return WriteText(w, t)
	case FormatCSV:
		return writeDelimited(w, t, ',')
	case FormatTSV:
		return writeDelimited(w, t, '\t')
	case FormatJSON:
		return WriteJSON(w, t)
	}
	return ValidateFormat(format)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteText renders t as a bordered terminal table.
func WriteText(w io.Writer, t table.Tabular) error {
	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(t.Headers()...).
		Rows(t.Records()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write table")
	}
	return nil
}

func writeDelimited(w io.Writer, t table.Tabular, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(t.Headers()); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write header")
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write records")
	}
	return nil
}

// WriteJSON encodes t as indented JSON.
func WriteJSON(w io.Writer, t table.Tabular) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode")
	}
	return nil
}

// Export writes t to a file at path. An empty format is taken from the
// file extension.
func Export(t table.Tabular, path, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "create %s", path)
	}
	if err := Write(f, t, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "close %s", path)
	}
	return nil
}

// ExportJSON writes t as JSON to path.
func ExportJSON(t table.Tabular, path string) error {
	return Export(t, path, FormatJSON)
}
