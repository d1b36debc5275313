package ingest

import (
	"bytes"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// ReadXLSX reads one worksheet of a workbook, the first one unless
// opts.Sheet names another.
func ReadXLSX(r io.Reader, opts Options) (table.Dataset, error) {
	data, err := readAll(r)
	if err != nil {
		return table.Dataset{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return table.Dataset{}, errors.WrapParse("xlsx", opts.Name, err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return table.Dataset{}, errors.NewParseError("xlsx", opts.Name, "workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return table.Dataset{}, errors.NewParseError("xlsx", opts.Name, "sheet "+sheet+" not found", err)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.Dataset{}, errors.WrapParse("xlsx", opts.Name, err)
	}
	return build("xlsx", opts, rows)
}
