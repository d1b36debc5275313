// Package ingest reads CSV and XLSX files into datasets. Cells are trimmed,
// blank cells become empty values and fully blank rows are skipped.
package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// Format is a supported input file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Options controls how a file is read.
type Options struct {
	// Name labels the dataset in errors; defaults to the file name.
	Name string
	// HeaderRow is the 0-based index of the header row. Rows above it are
	// ignored. CSV blank lines are not counted.
	HeaderRow int
	// Sheet selects an XLSX worksheet; the first sheet is used when empty.
	Sheet string
	// Comma is the CSV field delimiter; ',' when zero.
	Comma rune
}

// DetectFormat infers the format from a file name's extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", &errors.ParseError{
		Format:  strings.TrimPrefix(filepath.Ext(filename), "."),
		File:    filename,
		Message: "unsupported file format",
		Err:     errors.ErrUnsupportedFormat,
	}
}

// Read reads r in the format implied by filename.
func Read(r io.Reader, filename string, opts Options) (table.Dataset, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return table.Dataset{}, err
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(filename)
	}
	switch format {
	case FormatXLSX:
		return ReadXLSX(r, opts)
	default:
		return ReadCSV(r, opts)
	}
}

// ReadFile opens and reads a file from disk.
func ReadFile(path string, opts Options) (table.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Dataset{}, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, path, opts)
}

// build turns raw records into a dataset, starting at the header row.
func build(format string, opts Options, records [][]string) (table.Dataset, error) {
	if opts.HeaderRow < 0 {
		return table.Dataset{}, errors.NewValidationError("header_row", opts.HeaderRow, "must not be negative")
	}
	if len(records) <= opts.HeaderRow {
		return table.Dataset{}, errors.NewParseError(format, opts.Name, "no header row", nil)
	}
	header := make([]string, len(records[opts.HeaderRow]))
	for i, h := range records[opts.HeaderRow] {
		header[i] = strings.TrimSpace(h)
		if i == 0 {
			header[i] = strings.TrimPrefix(header[i], "\ufeff")
		}
	}

	var body [][]string
	for _, rec := range records[opts.HeaderRow+1:] {
		if blank(rec) {
			continue
		}
		body = append(body, rec)
	}
	return table.FromRecords(opts.Name, header, body), nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	return buf.Bytes(), nil
}
