package pipeline

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/source"
)

// BuildInspections flattens parsed inspection documents into canonical
// records. DriverID stays empty here; it is resolved against the driver
// roster at load time.
func BuildInspections(doc *source.InspectionDocument, res *Summary, logger *slog.Logger) []domain.DOTInspection {
	var out []domain.DOTInspection
	for _, node := range doc.Inspections {
		id, err := strconv.ParseInt(strings.TrimSpace(node.Main.InspectionID), 10, 64)
		if err != nil {
			logger.Warn("dropping inspection with bad id",
				"inspectionId", node.Main.InspectionID, "error", err)
			res.RowsRejected++
			continue
		}

		postDate, err := parseTimestamp(node.Main.PostDate)
		if err != nil {
			logger.Warn("dropping inspection with bad post date",
				"inspectionId", id, "error", err)
			res.RowsRejected++
			continue
		}

		var driverName, licenseNumber string
		if len(node.Drivers) > 0 {
			driverName = strings.TrimSpace(node.Drivers[0].LastName)
			licenseNumber = strings.TrimSpace(node.Drivers[0].LicenseID)
		}
		if driverName == "" || licenseNumber == "" {
			logger.Warn("dropping inspection without driver identification", "inspectionId", id)
			res.RowsRejected++
			continue
		}

		rec := domain.DOTInspection{
			InspectionID:  id,
			PostDate:      postDate,
			DriverName:    driverName,
			LicenseNumber: licenseNumber,
			Violations:    FormatViolations(node.Violations),
		}
		rec.TractorID, rec.TractorLicense, rec.TrailerID, rec.TrailerLicense = extractVehicles(node.Vehicles)

		out = append(out, rec)
		res.Built++
	}
	return out
}

// FormatViolations renders each violation as "<code> <category> <description>",
// drops empty fragments and joins with " | ". Single quotes are stripped from
// the result; the persisted text feeds downstream reporting that chokes on
// them.
func FormatViolations(violations []source.ViolationNode) string {
	var parts []string
	for _, v := range violations {
		s := strings.TrimSpace(strings.Join([]string{
			strings.TrimSpace(v.FedVioCode),
			strings.TrimSpace(v.Category),
			strings.TrimSpace(v.SectionDesc),
		}, " "))
		s = strings.Join(strings.Fields(s), " ")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ReplaceAll(strings.Join(parts, " | "), "'", "")
}

// extractVehicles splits an inspection's vehicles into tractor and trailer
// slots by unit type marker. A later vehicle of the same type overwrites an
// earlier one.
func extractVehicles(vehicles []source.VehicleNode) (tractorID, tractorLicense, trailerID, trailerLicense string) {
	for _, v := range vehicles {
		unitType := strings.ToUpper(v.UnitTypeCode)
		switch {
		case strings.Contains(unitType, "TRACTOR"):
			tractorID = strings.TrimSpace(v.CompanyID)
			tractorLicense = strings.TrimSpace(v.LicenseID)
		case strings.Contains(unitType, "TRAILER"):
			trailerID = strings.TrimSpace(v.CompanyID)
			trailerLicense = strings.TrimSpace(v.LicenseID)
		}
	}
	return tractorID, tractorLicense, trailerID, trailerLicense
}
