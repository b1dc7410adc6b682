package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/schema"
	"github.com/fleetops/scorecard-etl/internal/source"
)

// BuildHOS turns a normalized violation table into canonical records. Exports
// that carry their own unique ID column keep it; otherwise the ID is
// synthesized from driver, date and row index so re-imports of the same export
// dedup cleanly.
func BuildHOS(t *source.Table, res *Summary, logger *slog.Logger) []domain.HOSViolation {
	var out []domain.HOSViolation
	for i := range t.Rows {
		row := schema.Row(t, i)

		driverID := row["driver_id"]
		rawDate := row["violation_date"]
		vioType := row["violation_type"]
		if driverID == "" || rawDate == "" || vioType == "" {
			res.RowsRejected++
			continue
		}

		start, err := parseTimestamp(rawDate)
		if err != nil {
			logger.Warn("dropping violation row", "row", i, "error", err)
			res.RowsRejected++
			continue
		}

		id := row["id"]
		if id == "" {
			id = fmt.Sprintf("%s_%s_%d", driverID, rawDate, i)
		}

		rec := domain.HOSViolation{
			ID:                 id,
			DriverID:           driverID,
			DriverName:         row["driver_name"],
			ViolationStartTime: start,
			DriverStatus:       row["driver_status"],
			Terminal:           row["terminal"],
			Ruleset:            row["ruleset"],
			ViolationType:      vioType,
			ViolationDuration:  row["description"],
		}

		if raw := row["violation_end_time"]; raw != "" {
			if end, err := parseTimestamp(raw); err == nil {
				rec.ViolationEndTime = &end
			} else {
				logger.Warn("ignoring unparseable violation end time", "row", i, "error", err)
			}
		}

		rec.StartTimeAndDriver = row["start_time_and_driver"]
		if rec.StartTimeAndDriver == "" {
			rec.StartTimeAndDriver = fmt.Sprintf("%s - %s",
				start.Format("2006-01-02 15:04:05"), rec.DriverName)
		}

		out = append(out, rec)
		res.Built++
	}
	return out
}
