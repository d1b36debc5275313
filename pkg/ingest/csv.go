package ingest

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a delimited text file. Records may have differing field
// counts; short rows are padded with empty values.
func ReadCSV(r io.Reader, opts Options) (table.Dataset, error) {
	data, err := readAll(r)
	if err != nil {
		return table.Dataset{}, err
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			pe := errors.NewParseError("csv", opts.Name, err.Error(), err)
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				pe.Line, pe.Column = csvErr.Line, csvErr.Column
			}
			return table.Dataset{}, pe
		}
		records = append(records, rec)
	}
	return build("csv", opts, records)
}
