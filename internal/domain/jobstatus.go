package domain

import "time"

// Job ids are fixed per pipeline and match the monitoring dashboard's
// bindings. Every pipeline owns exactly one id.
const (
	JobDriverScores   = 11
	JobHOSViolations  = 12
	JobMaintenance    = 13
	JobDOTInspections = 14
)

// JobStatus is the single durable row per pipeline recording the outcome of
// its most recent run. Rows are upserted, never deleted.
type JobStatus struct {
	JobID         int       `gorm:"primaryKey;column:job_id;autoIncrement:false"`
	Result        bool      `gorm:"column:result"`
	Comment       string    `gorm:"column:comment;type:text"`
	LastExecution time.Time `gorm:"column:last_execution"`
}

func (JobStatus) TableName() string { return "script_status" }
