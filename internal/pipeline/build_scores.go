package pipeline

import (
	"log/slog"
	"time"

	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/schema"
	"github.com/fleetops/scorecard-etl/internal/source"
)

// BuildScores turns a normalized score table into canonical records. Every
// record in one run carries the same report month. Rows without a driver id or
// with non-numeric metrics are dropped and counted.
func BuildScores(t *source.Table, reportMonth time.Time, res *Summary, logger *slog.Logger) []domain.DriverScore {
	var out []domain.DriverScore
	for i := range t.Rows {
		row := schema.Row(t, i)

		driverID := row["driver_id"]
		if driverID == "" {
			res.RowsRejected++
			continue
		}
		minutes, err := parseInt(row["minutes_analyzed"])
		if err != nil {
			logger.Warn("dropping score row", "row", i, "error", err)
			res.RowsRejected++
			continue
		}
		score, err := parseInt(row["driver_score"])
		if err != nil {
			logger.Warn("dropping score row", "row", i, "error", err)
			res.RowsRejected++
			continue
		}

		out = append(out, domain.DriverScore{
			DriverID:        driverID,
			MinutesAnalyzed: minutes,
			Score:           score,
			ReportMonth:     reportMonth,
		})
		res.Built++
	}
	return out
}
