package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fleetops/scorecard-etl/internal/analyze"
	"github.com/fleetops/scorecard-etl/internal/config"
	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/ledger"
	"github.com/fleetops/scorecard-etl/internal/netradyne"
	"github.com/fleetops/scorecard-etl/internal/schema"
	"github.com/fleetops/scorecard-etl/internal/source"
	"github.com/fleetops/scorecard-etl/internal/warehouse"
)

// legacyHeaderRows is the preamble depth of the vendor's original CSV export
// layout; the real header sits on row 11.
const legacyHeaderRows = 10

// Options are the per-invocation knobs shared by all pipelines.
type Options struct {
	// Dir overrides the configured drop directory.
	Dir string
	// File processes a single file instead of scanning a directory.
	File string
	// DryRun stops after the build stage: no warehouse writes, no status row.
	DryRun bool
	// Analyze prints batch statistics for the built records.
	Analyze bool
	// FromAPI pulls scores from the vendor API instead of dropped files
	// (scores pipeline only).
	FromAPI bool
}

// ScoreSource fetches one month of driver scores from the vendor.
type ScoreSource interface {
	FleetScores(ctx context.Context, month time.Time) ([]netradyne.Score, error)
}

// Runner executes the four pipelines against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	scores ScoreSource
	open   func(config.Warehouse) (*gorm.DB, func(), error)
	now    func() time.Time
	out    io.Writer
}

// NewRunner wires a runner with the production collaborators.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		scores: netradyne.NewClient(cfg.Netradyne, logger),
		open:   warehouse.Open,
		now:    time.Now,
		out:    os.Stdout,
	}
}

// RunScores imports monthly driver scores from dropped files or, with
// FromAPI, straight from the vendor API.
func (r *Runner) RunScores(ctx context.Context, opts Options) (*Summary, error) {
	res := NewSummary("scores", opts.DryRun)
	res.ReportMonth = ReportMonth(r.now())

	var records []domain.DriverScore
	if opts.FromAPI {
		scores, err := r.scores.FleetScores(ctx, res.ReportMonth)
		if err != nil {
			res.Fatal = fmt.Sprintf("fetch scores from vendor API: %v", err)
		} else {
			res.RowsFound = len(scores)
			for _, s := range scores {
				records = append(records, domain.DriverScore{
					DriverID:    s.DriverID,
					Score:       s.Score,
					ReportMonth: res.ReportMonth,
				})
				res.Built++
			}
		}
	} else {
		for _, path := range r.sourceFiles(opts, r.cfg.Paths.Scores, res, ".csv", ".xlsx", ".xls") {
			norm, err := r.normalizedScoreTable(path)
			if err != nil {
				r.logger.Warn("skipping score file", "file", path, "error", err)
				res.FilesSkipped++
				continue
			}
			res.RowsFound += len(norm.Rows)
			records = append(records, BuildScores(norm, res.ReportMonth, res, r.logger)...)
		}
		if res.FilesFound == 0 {
			res.Fatal = "no score files found"
		}
	}

	return finishRun(r, res, opts,
		func(*gorm.DB) Descriptor[domain.DriverScore] { return ScoresDescriptor() },
		records,
		func() string { return analyze.Scores(records) })
}

// RunHOS imports hours-of-service violations from spreadsheet and JSON
// exports.
func (r *Runner) RunHOS(_ context.Context, opts Options) (*Summary, error) {
	res := NewSummary("hos", opts.DryRun)
	res.ReportMonth = ReportMonth(r.now())
	spec := schema.HOSViolations()

	var records []domain.HOSViolation
	for _, path := range r.sourceFiles(opts, r.cfg.Paths.HOS, res, ".xlsx", ".xls", ".json") {
		var (
			t   *source.Table
			err error
		)
		if strings.EqualFold(filepath.Ext(path), ".json") {
			t, err = source.ReadJSONTable(path)
		} else {
			t, err = source.ReadXLSX(path, "")
		}
		if err == nil {
			t, err = spec.Normalize(t)
		}
		if err != nil {
			r.logger.Warn("skipping violation file", "file", path, "error", err)
			res.FilesSkipped++
			continue
		}
		res.RowsFound += len(t.Rows)
		records = append(records, BuildHOS(t, res, r.logger)...)
	}
	if res.FilesFound == 0 {
		res.Fatal = "no violation files found"
	}

	return finishRun(r, res, opts,
		func(*gorm.DB) Descriptor[domain.HOSViolation] { return HOSDescriptor() },
		records,
		func() string { return analyze.HOS(records) })
}

// RunInspections imports FMCSA inspection XML exports. Driver resolution
// against the roster happens at load time, after the duplicate check.
func (r *Runner) RunInspections(_ context.Context, opts Options) (*Summary, error) {
	res := NewSummary("inspections", opts.DryRun)
	res.ReportMonth = ReportMonth(r.now())

	var records []domain.DOTInspection
	for _, path := range r.sourceFiles(opts, r.cfg.Paths.Inspections, res, ".xml") {
		doc, err := source.ReadInspectionXML(path)
		if err != nil {
			r.logger.Warn("skipping inspection file", "file", path, "error", err)
			res.FilesSkipped++
			continue
		}
		res.RowsFound += len(doc.Inspections)
		records = append(records, BuildInspections(doc, res, r.logger)...)
	}
	if res.FilesFound == 0 {
		res.Fatal = "no inspection files found"
	}

	return finishRun(r, res, opts,
		func(db *gorm.DB) Descriptor[domain.DOTInspection] {
			return InspectionsDescriptor(warehouse.NewDriverLookup(db, r.cfg.Jobs.CompanyID))
		},
		records,
		func() string { return analyze.Inspections(records) })
}

// RunMaintenance imports programmed-maintenance spreadsheet exports. Every
// record is stamped with this run's process date.
func (r *Runner) RunMaintenance(_ context.Context, opts Options) (*Summary, error) {
	res := NewSummary("maintenance", opts.DryRun)
	processDate := RunDate(r.now())
	spec := schema.Maintenance()

	var records []domain.MaintenanceRecord
	for _, path := range r.sourceFiles(opts, r.cfg.Paths.Maintenance, res, ".xlsx", ".xls") {
		t, err := source.ReadXLSX(path, "")
		if err == nil {
			t, err = spec.Normalize(t)
		}
		if err != nil {
			r.logger.Warn("skipping maintenance file", "file", path, "error", err)
			res.FilesSkipped++
			continue
		}
		res.RowsFound += len(t.Rows)
		records = append(records, BuildMaintenance(t, processDate, res, r.logger)...)
	}
	if res.FilesFound == 0 {
		res.Fatal = "no maintenance files found"
	}

	return finishRun(r, res, opts,
		func(*gorm.DB) Descriptor[domain.MaintenanceRecord] { return MaintenanceDescriptor() },
		records,
		func() string { return analyze.Maintenance(records, processDate) })
}

// sourceFiles resolves the file set for a run: an explicit file, or the
// contents of the chosen drop directory filtered by extension.
func (r *Runner) sourceFiles(opts Options, defaultDir string, res *Summary, exts ...string) []string {
	if opts.File != "" {
		res.FilesFound = 1
		return []string{opts.File}
	}
	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	files, err := source.FindFiles(dir, exts...)
	if err != nil {
		r.logger.Error("scanning source directory failed", "dir", dir, "error", err)
		return nil
	}
	r.logger.Info("discovered source files", "dir", dir, "count", len(files))
	res.FilesFound = len(files)
	return files
}

// normalizedScoreTable reads one score file onto the canonical schema. CSV
// files try the legacy layout first (header on row 11), then a plain header
// row with alias matching.
func (r *Runner) normalizedScoreTable(path string) (*source.Table, error) {
	spec := schema.DriverScores()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if t, err := source.ReadCSV(path, legacyHeaderRows); err == nil {
			if norm, err := spec.Normalize(t); err == nil {
				return norm, nil
			}
		}
		t, err := source.ReadCSV(path, 0)
		if err != nil {
			return nil, err
		}
		return spec.Normalize(t)
	}
	t, err := source.ReadXLSX(path, "")
	if err != nil {
		return nil, err
	}
	return spec.Normalize(t)
}

// finishRun is the shared tail of every pipeline: optional analysis, the
// dry-run short circuit, the load, and the status write. The status row is
// written on every non-dry-run path, including fatal ones, and a status
// failure never changes the run's outcome.
func finishRun[T Record](r *Runner, res *Summary, opts Options,
	describe func(db *gorm.DB) Descriptor[T], records []T, analysis func() string) (*Summary, error) {

	if opts.Analyze && analysis != nil {
		fmt.Fprint(r.out, analysis())
	}

	if opts.DryRun {
		fmt.Fprintln(r.out, res.String())
		if res.Fatal != "" {
			return res, errors.New(res.Fatal)
		}
		return res, nil
	}

	db, release, err := r.open(r.cfg.Warehouse)
	if err != nil {
		// With no warehouse at all there is nowhere to record status either.
		if res.Fatal == "" {
			res.Fatal = err.Error()
		}
		r.logger.Error("warehouse unavailable", "pipeline", res.Pipeline, "error", err)
		fmt.Fprintln(r.out, res.String())
		return res, err
	}
	defer release()

	desc := describe(db)
	if res.Fatal == "" {
		if err := Execute(db, desc, records, r.cfg.Jobs.BatchSize, res); err != nil {
			res.Fatal = err.Error()
			r.logger.Error("load aborted", "pipeline", desc.Name, "error", err)
		}
	}

	led := ledger.NewLedger(db, func() (*gorm.DB, func(), error) {
		return r.open(r.cfg.Warehouse)
	}, r.logger)
	if err := led.RecordOutcome(desc.JobID, res.Success(), res.FailureMessage()); err != nil {
		r.logger.Error("status write failed", "jobID", desc.JobID, "error", err)
	}

	fmt.Fprintln(r.out, res.String())
	r.logger.Info("run finished", "summary", res)
	return res, nil
}
