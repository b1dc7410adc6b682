package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads a delimited file into a Table, skipping skipRows lines before
// the header row. Rows shorter than the header are padded downstream via
// Table.Cell; rows longer are truncated to the header width.
func ReadCSV(path string, skipRows int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	for i := 0; i < skipRows; i++ {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%s: fewer than %d rows", path, skipRows)
			}
			return nil, fmt.Errorf("skip header rows in %s: %w", path, err)
		}
	}

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	t := &Table{Columns: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, err)
		}
		if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
