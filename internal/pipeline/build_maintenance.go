package pipeline

import (
	"log/slog"
	"time"

	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/schema"
	"github.com/fleetops/scorecard-etl/internal/source"
)

// BuildMaintenance turns a normalized maintenance table into canonical
// records stamped with this run's process date. Mileage fields are optional;
// an unparseable value degrades to zero rather than dropping the record.
func BuildMaintenance(t *source.Table, processDate time.Time, res *Summary, logger *slog.Logger) []domain.MaintenanceRecord {
	var out []domain.MaintenanceRecord
	for i := range t.Rows {
		row := schema.Row(t, i)

		vehicleID := row["vehicle_id"]
		maintType := row["maintenance_type"]
		dueDate := row["due_date"]
		if vehicleID == "" || maintType == "" || dueDate == "" {
			res.RowsRejected++
			continue
		}

		mileage, err := parseFloat(row["mileage"])
		if err != nil {
			logger.Warn("zeroing unparseable mileage", "row", i, "error", err)
			mileage = 0
		}
		serviceMiles, err := parseFloat(row["service_miles"])
		if err != nil {
			logger.Warn("zeroing unparseable service miles", "row", i, "error", err)
			serviceMiles = 0
		}

		out = append(out, domain.MaintenanceRecord{
			VehicleID:       vehicleID,
			VehicleNumber:   row["vehicle_number"],
			MaintenanceType: maintType,
			DueDate:         dueDate,
			LastService:     row["last_service"],
			Mileage:         mileage,
			ServiceMiles:    serviceMiles,
			Status:          row["status"],
			Priority:        row["priority"],
			Location:        row["location"],
			ProcessDate:     processDate,
		})
		res.Built++
	}
	return out
}
