package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Summary is the structured outcome of one pipeline invocation. It is always
// produced, whether the run succeeded, partially succeeded or aborted early.
type Summary struct {
	RunID    string
	Pipeline string
	DryRun   bool

	FilesFound   int
	FilesSkipped int
	RowsFound    int

	Built          int // records the builder accepted
	RowsRejected   int // record-level validation rejects
	Duplicates     int
	DriverNotFound int
	Inserted       int
	Batches        int
	FailedBatches  int
	Errors         int

	ReportMonth time.Time
	Fatal       string // set when the run short-circuited
}

// NewSummary starts a summary for the named pipeline with a fresh run id.
func NewSummary(pipeline string, dryRun bool) *Summary {
	return &Summary{
		RunID:    uuid.New().String(),
		Pipeline: pipeline,
		DryRun:   dryRun,
	}
}

func (s *Summary) held(h Hold) {
	if h == HoldDriverNotFound {
		s.DriverNotFound++
	}
}

// Candidates is the number of records that reached the dedup gate.
func (s *Summary) Candidates() int {
	return s.Inserted + s.Duplicates + s.DriverNotFound + s.Errors
}

// Success applies the load success predicate: something was inserted, or the
// entire candidate set was already present (an idempotent re-run is success,
// not failure). A fatal short-circuit is never success. A dry run never
// reaches the loader, so it succeeds unless it aborted.
func (s *Summary) Success() bool {
	if s.Fatal != "" {
		return false
	}
	if s.DryRun {
		return true
	}
	if s.Inserted > 0 {
		return true
	}
	return s.Candidates() > 0 && s.Duplicates == s.Candidates()
}

// FailureMessage builds the ledger comment for an unsuccessful run.
func (s *Summary) FailureMessage() string {
	if s.Fatal != "" {
		return s.Fatal
	}
	var parts []string
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors in %d failed batches", s.Errors, s.FailedBatches))
	}
	if s.DriverNotFound > 0 {
		parts = append(parts, fmt.Sprintf("%d records with unresolvable drivers", s.DriverNotFound))
	}
	if len(parts) == 0 {
		return "no valid data to insert"
	}
	return strings.Join(parts, "; ")
}

// LogValue lets the whole summary be emitted as one structured log record.
func (s *Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("runID", s.RunID),
		slog.String("pipeline", s.Pipeline),
		slog.Bool("dryRun", s.DryRun),
		slog.Int("filesFound", s.FilesFound),
		slog.Int("filesSkipped", s.FilesSkipped),
		slog.Int("rowsFound", s.RowsFound),
		slog.Int("built", s.Built),
		slog.Int("rowsRejected", s.RowsRejected),
		slog.Int("duplicates", s.Duplicates),
		slog.Int("driverNotFound", s.DriverNotFound),
		slog.Int("inserted", s.Inserted),
		slog.Int("errors", s.Errors),
		slog.Bool("success", s.Success()),
	)
}

// String renders the operator-facing run summary.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s import summary (run %s) ---\n", s.Pipeline, s.RunID)
	if s.DryRun {
		b.WriteString("mode: dry run (no writes)\n")
	}
	fmt.Fprintf(&b, "files found: %d, skipped: %d\n", s.FilesFound, s.FilesSkipped)
	fmt.Fprintf(&b, "rows found: %d, built: %d, rejected: %d\n", s.RowsFound, s.Built, s.RowsRejected)
	fmt.Fprintf(&b, "inserted: %d, duplicates skipped: %d, errors: %d\n", s.Inserted, s.Duplicates, s.Errors)
	if s.DriverNotFound > 0 {
		fmt.Fprintf(&b, "driver not found: %d\n", s.DriverNotFound)
	}
	if !s.ReportMonth.IsZero() {
		fmt.Fprintf(&b, "report month: %s\n", s.ReportMonth.Format("2006-01-02"))
	}
	if s.Fatal != "" {
		fmt.Fprintf(&b, "aborted: %s\n", s.Fatal)
	}
	fmt.Fprintf(&b, "result: %s", map[bool]string{true: "SUCCESS", false: "FAILED"}[s.Success()])
	return b.String()
}
