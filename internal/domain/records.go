// Package domain defines the canonical record shapes persisted by the ETL
// pipelines. Each record carries a natural key used by the deduplication
// gate; the GORM tags mirror the warehouse tables.
package domain

import (
	"fmt"
	"time"
)

// DriverScore is one driver's monthly Netradyne score.
// Natural key: (driver_id, report_month).
type DriverScore struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id"`
	DriverID        string    `gorm:"column:driver_id;index:idx_score_driver_month,priority:1;not null"`
	MinutesAnalyzed int       `gorm:"column:minutes_analyzed"`
	Score           int       `gorm:"column:driver_score"`
	ReportMonth     time.Time `gorm:"column:reported_month;type:date;index:idx_score_driver_month,priority:2"`
}

func (DriverScore) TableName() string { return "netradyne_driver_score" }

// Key returns the record's natural key.
func (s DriverScore) Key() string {
	return s.DriverID + "|" + s.ReportMonth.Format("2006-01-02")
}

// HOSViolation is one hours-of-service violation. Vendor exports either carry
// a unique ID or the ID is synthesized from driver, date and row index.
// Natural key: id.
type HOSViolation struct {
	ID                 string     `gorm:"primaryKey;column:id;type:varchar(128)"`
	StartTimeAndDriver string     `gorm:"column:start_time_and_driver"`
	DriverID           string     `gorm:"column:driver_id;index:idx_hos_driver;not null"`
	DriverName         string     `gorm:"column:driver_name"`
	ViolationStartTime time.Time  `gorm:"column:violation_start_time"`
	ViolationEndTime   *time.Time `gorm:"column:violation_end_time"`
	DriverStatus       string     `gorm:"column:driver_status"`
	Terminal           string     `gorm:"column:terminal"`
	Ruleset            string     `gorm:"column:ruleset"`
	ViolationType      string     `gorm:"column:violation_type"`
	ViolationDuration  string     `gorm:"column:violation_duration"`
}

func (HOSViolation) TableName() string { return "hos_violations" }

func (v HOSViolation) Key() string { return v.ID }

// DOTInspection is one FMCSA roadside inspection. DriverID is resolved from
// the license number at load time; records without a resolvable driver are
// held back from insertion.
// Natural key: inspection_id.
type DOTInspection struct {
	InspectionID   int64     `gorm:"primaryKey;column:inspection_id;autoIncrement:false"`
	PostDate       time.Time `gorm:"column:post_date;type:date"`
	DriverName     string    `gorm:"column:driver_name"`
	LicenseNumber  string    `gorm:"column:license_number"`
	TractorID      string    `gorm:"column:tractor_id"`
	TractorLicense string    `gorm:"column:tractor_license"`
	TrailerID      string    `gorm:"column:trailer_id"`
	TrailerLicense string    `gorm:"column:trailer_license"`
	Violations     string    `gorm:"column:violations;type:text"`
	DriverID       string    `gorm:"column:driver_id"`
}

func (DOTInspection) TableName() string { return "dot_inspections" }

func (i DOTInspection) Key() string { return fmt.Sprintf("%d", i.InspectionID) }

// MaintenanceRecord is one scheduled-maintenance item for a vehicle.
// Natural key: (vehicle_id, maintenance_type, due_date).
type MaintenanceRecord struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id"`
	VehicleID       string    `gorm:"column:vehicle_id;index:idx_maint_key,priority:1;not null"`
	VehicleNumber   string    `gorm:"column:vehicle_number"`
	MaintenanceType string    `gorm:"column:maintenance_type;index:idx_maint_key,priority:2"`
	DueDate         string    `gorm:"column:due_date;index:idx_maint_key,priority:3"`
	LastService     string    `gorm:"column:last_service"`
	Mileage         float64   `gorm:"column:mileage"`
	ServiceMiles    float64   `gorm:"column:service_miles"`
	Status          string    `gorm:"column:status"`
	Priority        string    `gorm:"column:priority"`
	Location        string    `gorm:"column:location"`
	ProcessDate     time.Time `gorm:"column:process_date;type:date"`
}

func (MaintenanceRecord) TableName() string { return "maintenance_records" }

func (m MaintenanceRecord) Key() string {
	return m.VehicleID + "|" + m.MaintenanceType + "|" + m.DueDate
}

// Driver is the warehouse driver roster used to resolve inspection license
// numbers. The table is owned by the dispatch system; the ETL only reads it.
type Driver struct {
	ID        string `gorm:"primaryKey;column:id;type:varchar(36)"`
	LicenseNo string `gorm:"column:license_no;index:idx_driver_license"`
	CompanyID string `gorm:"column:company_id"`
}

func (Driver) TableName() string { return "drivers" }
