package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fleetops/scorecard-etl/internal/config"
	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/netradyne"
)

type fakeScoreSource struct {
	scores []netradyne.Score
	err    error
	month  time.Time
}

func (f *fakeScoreSource) FleetScores(_ context.Context, month time.Time) ([]netradyne.Score, error) {
	f.month = month
	return f.scores, f.err
}

func newTestRunner(t *testing.T, db *gorm.DB) *Runner {
	t.Helper()
	cfg := &config.Config{}
	cfg.Jobs.BatchSize = 1000
	cfg.Jobs.CompanyID = "TMS"

	r := NewRunner(cfg, discardLogger())
	r.out = io.Discard
	r.open = func(config.Warehouse) (*gorm.DB, func(), error) {
		return db, func() {}, nil
	}
	r.now = func() time.Time {
		return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	}
	return r
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func legacyScoreCSV() string {
	var b strings.Builder
	// Ten rows of export preamble before the real header.
	for i := 0; i < 10; i++ {
		b.WriteString("Netradyne Fleet Report,,\n")
	}
	b.WriteString("Driver ID,Minutes Analyzed,Driver Score\n")
	b.WriteString("D001,1200,88\n")
	b.WriteString("D002,900,91\n")
	return b.String()
}

func TestRunScoresFromLegacyCSV(t *testing.T) {
	db := setupTestDB(t, &domain.DriverScore{}, &domain.JobStatus{})
	dir := t.TempDir()
	writeFile(t, dir, "july.csv", legacyScoreCSV())

	r := newTestRunner(t, db)
	res, err := r.RunScores(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, 1, res.FilesFound)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), res.ReportMonth)

	// The run left a success row in the status table.
	var status domain.JobStatus
	require.NoError(t, db.First(&status, "job_id = ?", domain.JobDriverScores).Error)
	assert.True(t, status.Result)
	assert.Empty(t, status.Comment)
}

func TestRunScoresModernHeaderCSV(t *testing.T) {
	db := setupTestDB(t, &domain.DriverScore{}, &domain.JobStatus{})
	dir := t.TempDir()
	writeFile(t, dir, "scores.csv", "driver_id,minutes,score\nD001,1200,88\n")

	r := newTestRunner(t, db)
	res, err := r.RunScores(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
}

func TestRunScoresFromAPI(t *testing.T) {
	db := setupTestDB(t, &domain.DriverScore{}, &domain.JobStatus{})
	r := newTestRunner(t, db)
	fake := &fakeScoreSource{scores: []netradyne.Score{
		{DriverID: "D001", Score: 88},
		{DriverID: "D002", Score: 91},
	}}
	r.scores = fake

	res, err := r.RunScores(context.Background(), Options{FromAPI: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	// The API is asked for the report month, not the current one.
	assert.Equal(t, res.ReportMonth, fake.month)

	var stored domain.DriverScore
	require.NoError(t, db.First(&stored, "driver_id = ?", "D001").Error)
	assert.Equal(t, 0, stored.MinutesAnalyzed) // API carries no minutes
}

func TestRunScoresNoFilesIsFatal(t *testing.T) {
	db := setupTestDB(t, &domain.DriverScore{}, &domain.JobStatus{})
	r := newTestRunner(t, db)

	res, err := r.RunScores(context.Background(), Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.False(t, res.Success())

	// The failure is still recorded in the status table.
	var status domain.JobStatus
	require.NoError(t, db.First(&status, "job_id = ?", domain.JobDriverScores).Error)
	assert.False(t, status.Result)
	assert.NotEmpty(t, status.Comment)
}

func TestRunScoresDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "july.csv", legacyScoreCSV())

	r := newTestRunner(t, nil)
	r.open = func(config.Warehouse) (*gorm.DB, func(), error) {
		t.Fatal("dry run must not open the warehouse")
		return nil, nil, nil
	}

	res, err := r.RunScores(context.Background(), Options{Dir: dir, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Built)
	assert.Equal(t, 0, res.Inserted)
}

func TestRunScoresSkipsUnusableFile(t *testing.T) {
	db := setupTestDB(t, &domain.DriverScore{}, &domain.JobStatus{})
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "Totally,Different,Columns\n1,2,3\n")
	writeFile(t, dir, "good.csv", legacyScoreCSV())

	r := newTestRunner(t, db)
	res, err := r.RunScores(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 2, res.FilesFound)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, 2, res.Inserted)
	assert.True(t, res.Success())
}

func TestRunHOSFromJSON(t *testing.T) {
	db := setupTestDB(t, &domain.HOSViolation{}, &domain.JobStatus{})
	dir := t.TempDir()
	writeFile(t, dir, "violations.json", `[
		{"ID": "V-1", "Driver ID": "D1", "Driver Name": "Jones",
		 "Violation Start Time": "2026-07-03T06:00:00",
		 "Violation End Time": "2026-07-03T09:30:00",
		 "Violation Type": "11-hour", "Terminal": "Laredo",
		 "Ruleset": "US 70hr/8day", "Driver Status": "Active",
		 "Violation Duration (HH:MM:SS)": "03:30:00",
		 "Start Time and Driver": "2026-07-03 06:00:00 - Jones"}
	]`)

	r := newTestRunner(t, db)
	res, err := r.RunHOS(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	var stored domain.HOSViolation
	require.NoError(t, db.First(&stored, "id = ?", "V-1").Error)
	assert.Equal(t, "Laredo", stored.Terminal)
	assert.Equal(t, "03:30:00", stored.ViolationDuration)
	require.NotNil(t, stored.ViolationEndTime)
}

func TestRunInspectionsEndToEnd(t *testing.T) {
	db := setupTestDB(t, &domain.DOTInspection{}, &domain.Driver{}, &domain.JobStatus{})
	require.NoError(t, db.Create(&domain.Driver{
		ID: "DRV-7", LicenseNo: "TX555", CompanyID: "TMS",
	}).Error)

	dir := t.TempDir()
	writeFile(t, dir, "inspections.xml", `<Inspections>
	  <Inspection>
	    <InspMain>
	      <inspectionId>900200</inspectionId>
	      <InspectionPostDate>2026-07-15</InspectionPostDate>
	    </InspMain>
	    <Drivers>
	      <Driver><DriverLastName>Smith</DriverLastName><DriverLicenseID>TX555</DriverLicenseID></Driver>
	    </Drivers>
	    <Vehicles>
	      <Vehicle><VehicleUnitTypeCode>TRACTOR</VehicleUnitTypeCode><VehicleCompanyID>T-9</VehicleCompanyID><VehicleLicenseID>PLT-9</VehicleLicenseID></Vehicle>
	    </Vehicles>
	    <Violations>
	      <Violation><FedVioCode>392.2</FedVioCode><ViolationCategory>Traffic</ViolationCategory><SectionDesc>Driver's log</SectionDesc></Violation>
	    </Violations>
	  </Inspection>
	</Inspections>`)

	r := newTestRunner(t, db)
	res, err := r.RunInspections(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	var stored domain.DOTInspection
	require.NoError(t, db.First(&stored, "inspection_id = ?", 900200).Error)
	assert.Equal(t, "DRV-7", stored.DriverID)
	assert.Equal(t, "T-9", stored.TractorID)
	assert.Equal(t, "392.2 Traffic Drivers log", stored.Violations)
}

func TestRunWithSingleFileOption(t *testing.T) {
	db := setupTestDB(t, &domain.DriverScore{}, &domain.JobStatus{})
	dir := t.TempDir()
	path := writeFile(t, dir, "july.csv", legacyScoreCSV())
	// A second file in the directory must be ignored.
	writeFile(t, dir, "ignored.csv", legacyScoreCSV())

	r := newTestRunner(t, db)
	res, err := r.RunScores(context.Background(), Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesFound)
	assert.Equal(t, 2, res.Inserted)
}
