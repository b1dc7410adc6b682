package schema

// Alias tables per domain. Ordering within each alias list matters: the
// first name present in the source wins.

// DriverScores matches Netradyne score exports (current and legacy layouts).
func DriverScores() Spec {
	return Spec{
		Canonical: []string{"driver_id", "minutes_analyzed", "driver_score"},
		Aliases: map[string][]string{
			"driver_id":        {"Driver ID", "driver_id", "DriverID", "ID"},
			"minutes_analyzed": {"Minutes Analyzed", "minutes_analyzed", "MinutesAnalyzed", "Minutes"},
			"driver_score":     {"Driver Score", "driver_score", "DriverScore", "Score"},
		},
		Required: []string{"driver_id", "minutes_analyzed", "driver_score"},
	}
}

// HOSViolations matches hours-of-service violation exports. JSON exports use
// the vendor's verbose headers; spreadsheet exports vary by report template.
func HOSViolations() Spec {
	return Spec{
		Canonical: []string{
			"id", "driver_id", "driver_name", "violation_date",
			"violation_type", "description", "terminal", "ruleset",
			"driver_status", "start_time_and_driver", "violation_end_time",
		},
		Aliases: map[string][]string{
			"id":                    {"ID"},
			"driver_id":             {"Driver ID", "driver_id", "DriverID", "Employee_ID"},
			"driver_name":           {"Driver Name", "driver_name", "DriverName", "Name", "Employee_Name"},
			"violation_date":        {"Violation Date", "violation_date", "ViolationDate", "Date", "Violation Start Time"},
			"violation_type":        {"Violation Type", "violation_type", "ViolationType", "Type"},
			"description":           {"Description", "description", "Desc", "Details", "Violation Duration (HH:MM:SS)"},
			"terminal":              {"Terminal", "terminal", "Location", "Base"},
			"ruleset":               {"Ruleset", "ruleset", "Rules", "Rule_Set"},
			"driver_status":         {"Driver Status", "driver_status", "Status"},
			"start_time_and_driver": {"Start Time and Driver"},
			"violation_end_time":    {"Violation End Time"},
		},
		Required: []string{"driver_id", "violation_date", "violation_type"},
	}
}

// Maintenance matches programmed-maintenance spreadsheet exports.
func Maintenance() Spec {
	return Spec{
		Canonical: []string{
			"vehicle_id", "vehicle_number", "maintenance_type", "due_date",
			"last_service", "mileage", "service_miles", "status",
			"priority", "location",
		},
		Aliases: map[string][]string{
			"vehicle_id":       {"Vehicle ID", "vehicle_id", "Unit_ID", "Truck_ID"},
			"vehicle_number":   {"Vehicle Number", "vehicle_number", "Unit_Number"},
			"maintenance_type": {"Maintenance Type", "maintenance_type", "Service_Type", "Work_Type"},
			"due_date":         {"Due Date", "due_date", "Service_Due", "Scheduled_Date"},
			"last_service":     {"Last Service", "last_service", "Last_Completed"},
			"mileage":          {"Mileage", "mileage", "Odometer"},
			"service_miles":    {"Service Miles", "service_miles", "Miles_To_Service"},
			"status":           {"Status", "status"},
			"priority":         {"Priority", "priority"},
			"location":         {"Location", "location", "Domicile"},
		},
		Required: []string{"vehicle_id", "maintenance_type", "due_date"},
	}
}
