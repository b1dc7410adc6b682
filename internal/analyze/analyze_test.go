package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fleetops/scorecard-etl/internal/domain"
)

func TestScoresMean(t *testing.T) {
	out := Scores([]domain.DriverScore{
		{DriverID: "D1", Score: 80},
		{DriverID: "D2", Score: 90},
	})
	assert.Contains(t, out, "drivers scored: 2")
	assert.Contains(t, out, "mean score: 85.0 (min 80, max 90)")
}

func TestScoresEmpty(t *testing.T) {
	assert.Equal(t, "no score records\n", Scores(nil))
}

func TestHOSBreakdowns(t *testing.T) {
	start := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
	out := HOS([]domain.HOSViolation{
		{DriverID: "D1", DriverName: "Jones", ViolationType: "11-hour", Terminal: "Laredo", ViolationStartTime: start},
		{DriverID: "D1", DriverName: "Jones", ViolationType: "14-hour", Terminal: "Laredo", ViolationStartTime: start.AddDate(0, 0, 4)},
		{DriverID: "D2", ViolationType: "11-hour", Terminal: "", ViolationStartTime: start.AddDate(0, 0, 2)},
	})
	assert.Contains(t, out, "total violations: 3 across 2 drivers")
	assert.Contains(t, out, "date range: 2026-07-03 to 2026-07-07")
	assert.Contains(t, out, "Jones (D1)")
	assert.Contains(t, out, "(unspecified)")
}

func TestMaintenanceOverdue(t *testing.T) {
	today := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	out := Maintenance([]domain.MaintenanceRecord{
		{VehicleID: "V1", MaintenanceType: "Oil Change", DueDate: "2026-08-01", Status: "Scheduled", Priority: "High"},
		{VehicleID: "V2", MaintenanceType: "Brakes", DueDate: "2026-09-15", Status: "Scheduled", Priority: "Low"},
		{VehicleID: "V3", MaintenanceType: "Brakes", DueDate: "not-a-date", Status: "Done", Priority: "Low"},
	}, today)
	assert.Contains(t, out, "total maintenance items: 3, overdue: 1")
	assert.Contains(t, out, "by type:")
}

func TestInspectionsViolationSplit(t *testing.T) {
	out := Inspections([]domain.DOTInspection{
		{InspectionID: 1, Violations: "392.2 Traffic"},
		{InspectionID: 2},
	})
	assert.Contains(t, out, "total inspections: 2")
	assert.Contains(t, out, "with violations: 1, clean: 1")
}
