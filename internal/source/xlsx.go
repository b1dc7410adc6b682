package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a spreadsheet into a Table. The named sheet is used when
// given; otherwise the workbook's first sheet. The first row is the header.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, sheet)
	}

	t := &Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		if len(row) > len(t.Columns) {
			row = row[:len(t.Columns)]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
