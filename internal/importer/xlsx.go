package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gotensile/internal/specimen"
)

// ReadXLSX reads displacement and force from the first two columns of the
// workbook's first sheet, skipping opts.HeaderLines rows. Cells are read as
// displayed, so a decimal comma is handled like in text exports.
func ReadXLSX(r io.Reader, opts Options) (*specimen.Raw, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}
	if len(rows) <= opts.HeaderLines {
		return nil, fmt.Errorf("%w: sheet %q has no rows after %d header lines", ErrMalformed, sheet, opts.HeaderLines)
	}

	var disp, force []float64
	for i := opts.HeaderLines; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}
		d, fv, err := parseRow(row, opts.DecimalSeparator)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+1, err)
		}
		disp = append(disp, d)
		force = append(force, fv)
	}

	return build(disp, force, opts)
}
