package pipeline

import (
	"gorm.io/gorm"

	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/warehouse"
)

// ScoresDescriptor binds the monthly score domain: keyed by driver and report
// month, inserted into the pre-provisioned score table.
func ScoresDescriptor() Descriptor[domain.DriverScore] {
	return Descriptor[domain.DriverScore]{
		Name:  "scores",
		JobID: domain.JobDriverScores,
		Exists: func(db *gorm.DB, rec domain.DriverScore) (bool, error) {
			var n int64
			err := db.Model(&domain.DriverScore{}).
				Where("driver_id = ? AND reported_month = ?", rec.DriverID, rec.ReportMonth).
				Count(&n).Error
			return n > 0, err
		},
	}
}

// HOSDescriptor binds the violation domain: keyed by the violation id.
func HOSDescriptor() Descriptor[domain.HOSViolation] {
	return Descriptor[domain.HOSViolation]{
		Name:  "hos",
		JobID: domain.JobHOSViolations,
		Exists: func(db *gorm.DB, rec domain.HOSViolation) (bool, error) {
			var n int64
			err := db.Model(&domain.HOSViolation{}).
				Where("id = ?", rec.ID).
				Count(&n).Error
			return n > 0, err
		},
	}
}

// InspectionsDescriptor binds the inspection domain: keyed by inspection id,
// with a finalize step that resolves the driver's license against the roster.
// Inspections whose license resolves to no driver are withheld and counted.
func InspectionsDescriptor(lookup *warehouse.DriverLookup) Descriptor[domain.DOTInspection] {
	return Descriptor[domain.DOTInspection]{
		Name:  "inspections",
		JobID: domain.JobDOTInspections,
		Exists: func(db *gorm.DB, rec domain.DOTInspection) (bool, error) {
			var n int64
			err := db.Model(&domain.DOTInspection{}).
				Where("inspection_id = ?", rec.InspectionID).
				Count(&n).Error
			return n > 0, err
		},
		Finalize: func(db *gorm.DB, rec domain.DOTInspection) (domain.DOTInspection, Hold, error) {
			driverID, found, err := lookup.Resolve(rec.LicenseNumber)
			if err != nil {
				return rec, HoldNone, err
			}
			if !found {
				return rec, HoldDriverNotFound, nil
			}
			rec.DriverID = driverID
			return rec, HoldNone, nil
		},
	}
}

// MaintenanceDescriptor binds the maintenance domain: keyed by vehicle, type
// and due date. Its table is created lazily because the warehouse does not
// pre-provision it.
func MaintenanceDescriptor() Descriptor[domain.MaintenanceRecord] {
	return Descriptor[domain.MaintenanceRecord]{
		Name:  "maintenance",
		JobID: domain.JobMaintenance,
		Exists: func(db *gorm.DB, rec domain.MaintenanceRecord) (bool, error) {
			var n int64
			err := db.Model(&domain.MaintenanceRecord{}).
				Where("vehicle_id = ? AND maintenance_type = ? AND due_date = ?",
					rec.VehicleID, rec.MaintenanceType, rec.DueDate).
				Count(&n).Error
			return n > 0, err
		},
		EnsureTable: func(db *gorm.DB) error {
			return db.AutoMigrate(&domain.MaintenanceRecord{})
		},
	}
}
