package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/scorecard-etl/internal/source"
)

func TestNormalizeResolvesFirstAlias(t *testing.T) {
	spec := Spec{
		Canonical: []string{"driver_id"},
		Aliases: map[string][]string{
			// Both aliases are present; the first listed must win.
			"driver_id": {"Driver ID", "ID"},
		},
		Required: []string{"driver_id"},
	}
	in := &source.Table{
		Columns: []string{"ID", "Driver ID"},
		Rows:    [][]string{{"wrong", "D100"}},
	}

	out, err := spec.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"driver_id"}, out.Columns)
	assert.Equal(t, "D100", out.Cell(0, 0))
}

func TestNormalizeToleratesCaseAndSpacing(t *testing.T) {
	in := &source.Table{
		Columns: []string{"  driver id ", "MINUTES ANALYZED", "Driver Score"},
		Rows:    [][]string{{"D1", "120", "88"}},
	}

	out, err := DriverScores().Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"driver_id", "minutes_analyzed", "driver_score"}, out.Columns)
}

func TestNormalizeFailsClosedOnMissingRequired(t *testing.T) {
	in := &source.Table{
		Columns: []string{"Driver ID", "Something Else"},
		Rows:    [][]string{{"D1", "x"}},
	}

	_, err := DriverScores().Normalize(in)
	require.Error(t, err)

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Missing, "minutes_analyzed")
	assert.Contains(t, missing.Missing, "driver_score")
	assert.Equal(t, []string{"Driver ID", "Something Else"}, missing.Available)
}

func TestNormalizeDropsUnresolvedOptionalColumns(t *testing.T) {
	// HOS requires only driver_id, violation_date and violation_type;
	// unresolved optional columns are simply absent from the output.
	in := &source.Table{
		Columns: []string{"Driver ID", "Date", "Type"},
		Rows:    [][]string{{"D1", "2026-07-03", "11-hour"}},
	}

	out, err := HOSViolations().Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"driver_id", "violation_date", "violation_type"}, out.Columns)
}

func TestNormalizeTrimsCellValues(t *testing.T) {
	in := &source.Table{
		Columns: []string{"Driver ID", "Minutes Analyzed", "Driver Score"},
		Rows:    [][]string{{"  D1  ", " 120 ", "88"}},
	}

	out, err := DriverScores().Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "D1", out.Cell(0, 0))
	assert.Equal(t, "120", out.Cell(0, 1))
}

func TestNormalizeHandlesShortRows(t *testing.T) {
	in := &source.Table{
		Columns: []string{"Driver ID", "Minutes Analyzed", "Driver Score"},
		Rows:    [][]string{{"D1"}},
	}

	out, err := DriverScores().Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "", out.Cell(0, 2))
}

func TestRowMapsCanonicalNames(t *testing.T) {
	in := &source.Table{
		Columns: []string{"driver_id", "driver_score"},
		Rows:    [][]string{{"D1", "90"}},
	}
	m := Row(in, 0)
	assert.Equal(t, "D1", m["driver_id"])
	assert.Equal(t, "90", m["driver_score"])
}
