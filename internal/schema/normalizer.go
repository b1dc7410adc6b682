// Package schema maps the varied column names found in source exports onto
// each domain's canonical schema. Resolution is fail-closed: a source missing
// any required canonical column yields no data at all for that file.
package schema

import (
	"fmt"
	"strings"

	"github.com/fleetops/scorecard-etl/internal/source"
)

// Spec describes one domain's canonical tabular schema.
type Spec struct {
	// Canonical lists the canonical column names in output order.
	Canonical []string
	// Aliases maps each canonical name to the acceptable source names, in
	// preference order. The first alias present in the source wins.
	Aliases map[string][]string
	// Required names the canonical columns that must resolve for the source
	// to be usable.
	Required []string
}

// MissingColumnsError reports which required columns could not be resolved
// and what the source actually offered, for operator diagnosis.
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns %v (available: %v)",
		e.Missing, e.Available)
}

// Normalize projects a raw table onto the canonical schema. Output columns
// use normalized canonical names (lower-cased, underscored); canonical
// columns with no matching alias are absent from the result. Returns a
// MissingColumnsError when a required column cannot be resolved.
func (s Spec) Normalize(t *source.Table) (*source.Table, error) {
	resolved := map[string]int{} // canonical -> source column index

	for _, canonical := range s.Canonical {
		aliases := s.Aliases[canonical]
		if len(aliases) == 0 {
			aliases = []string{canonical}
		}
		for _, alias := range aliases {
			if idx := indexOfName(t.Columns, alias); idx >= 0 {
				resolved[canonical] = idx
				break
			}
		}
	}

	var missing []string
	for _, req := range s.Required {
		if _, ok := resolved[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Available: t.Columns}
	}

	out := &source.Table{}
	var indices []int
	for _, canonical := range s.Canonical {
		idx, ok := resolved[canonical]
		if !ok {
			continue
		}
		out.Columns = append(out.Columns, source.NormalizeName(canonical))
		indices = append(indices, idx)
	}

	for i := range t.Rows {
		row := make([]string, len(indices))
		for j, idx := range indices {
			row[j] = strings.TrimSpace(t.Cell(i, idx))
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// indexOfName matches an alias against source column names, tolerating case
// and spacing differences on both sides.
func indexOfName(columns []string, alias string) int {
	want := source.NormalizeName(alias)
	for i, c := range columns {
		if source.NormalizeName(c) == want {
			return i
		}
	}
	return -1
}

// Row returns row i of a normalized table as a canonical-name map.
func Row(t *source.Table, i int) map[string]string {
	m := make(map[string]string, len(t.Columns))
	for j, c := range t.Columns {
		m[c] = t.Cell(i, j)
	}
	return m
}
