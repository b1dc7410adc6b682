// Package ledger maintains the per-job status rows used by external
// monitoring. Each pipeline upserts exactly one row per run; the ledger is
// best-effort and never fails a pipeline on its own.
package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fleetops/scorecard-etl/internal/domain"
)

// maxCommentLen bounds failure messages stored in the status table.
const maxCommentLen = 2000

// Reconnect dials a fresh warehouse connection for status reporting when the
// pipeline's own connection is gone. The release func closes it.
type Reconnect func() (*gorm.DB, func(), error)

// Ledger writes job outcomes. The zero value is not usable; construct with
// NewLedger.
type Ledger struct {
	db        *gorm.DB
	reconnect Reconnect
	logger    *slog.Logger
}

// NewLedger creates a ledger over the pipeline's connection. reconnect may be
// nil when no secondary connection attempt is wanted (tests).
func NewLedger(db *gorm.DB, reconnect Reconnect, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{db: db, reconnect: reconnect, logger: logger}
}

// AutoMigrate creates or updates the status table.
func (l *Ledger) AutoMigrate() error {
	return l.db.AutoMigrate(&domain.JobStatus{})
}

// RecordOutcome upserts the status row for jobID. Success clears any prior
// comment; failure stores the message. When the primary connection refuses
// the write, one reconnect attempt is made so that a dead pipeline
// connection cannot silence status reporting. The returned error is for
// logging only; callers must not let it change the pipeline's own result.
func (l *Ledger) RecordOutcome(jobID int, success bool, message string) error {
	row := domain.JobStatus{
		JobID:         jobID,
		Result:        success,
		LastExecution: time.Now(),
	}
	if !success {
		if len(message) > maxCommentLen {
			message = message[:maxCommentLen]
		}
		row.Comment = message
	}

	if err := upsert(l.db, &row); err == nil {
		return nil
	} else if l.reconnect == nil {
		return fmt.Errorf("update status for job %d: %w", jobID, err)
	} else {
		l.logger.Warn("status write failed on pipeline connection, retrying on a fresh one",
			"jobID", jobID, "error", err)
	}

	db, release, err := l.reconnect()
	if err != nil {
		return fmt.Errorf("reconnect for status of job %d: %w", jobID, err)
	}
	defer release()

	if err := upsert(db, &row); err != nil {
		return fmt.Errorf("update status for job %d on secondary connection: %w", jobID, err)
	}
	return nil
}

// Get returns the status row for jobID, or nil when the job has never run.
func (l *Ledger) Get(jobID int) (*domain.JobStatus, error) {
	var row domain.JobStatus
	if err := l.db.First(&row, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get status for job %d: %w", jobID, err)
	}
	return &row, nil
}

// List returns all status rows ordered by job id.
func (l *Ledger) List() ([]domain.JobStatus, error) {
	var rows []domain.JobStatus
	if err := l.db.Order("job_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list job statuses: %w", err)
	}
	return rows, nil
}

func upsert(db *gorm.DB, row *domain.JobStatus) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		UpdateAll: true,
	}).Create(row).Error
}
