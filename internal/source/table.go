// Package source reads raw export files (delimited, spreadsheet, JSON, XML)
// into format-independent structures for the schema normalizer. It knows
// nothing about domains; column meaning is resolved downstream.
package source

import "strings"

// Table is tabular data decoupled from its file format. Column order is
// preserved from the source; rows may be ragged (short rows read as empty).
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col index), tolerating short rows.
func (t *Table) Cell(row int, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// NormalizeName canonicalizes a column name: trimmed, lower-cased, spaces
// collapsed to single underscores.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	fields := strings.Fields(name)
	return strings.Join(fields, "_")
}
