package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Warehouse.Dialect)
	assert.Equal(t, 1000, cfg.Jobs.BatchSize)
	assert.Equal(t, "TMS", cfg.Jobs.CompanyID)
	assert.Equal(t, 30*time.Second, cfg.Netradyne.AuthTimeout)
	assert.Equal(t, 60*time.Second, cfg.Netradyne.FetchTimeout)
	assert.Equal(t, "netradyne_score_data", cfg.Paths.Scores)
	assert.Equal(t, "programmed_maintenance", cfg.Paths.Maintenance)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
warehouse:
  dialect: mysql
  host: warehouse.internal
  port: 3306
  database: scorecard
  user: etl
jobs:
  batch_size: 250
paths:
  hos: /srv/drops/hos
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Warehouse.Dialect)
	assert.Equal(t, "warehouse.internal", cfg.Warehouse.Host)
	assert.Equal(t, 250, cfg.Jobs.BatchSize)
	assert.Equal(t, "/srv/drops/hos", cfg.Paths.HOS)
	// Untouched settings keep their defaults.
	assert.Equal(t, "TMS", cfg.Jobs.CompanyID)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SCORECARD_WAREHOUSE_PASSWORD", "hunter2")
	t.Setenv("SCORECARD_JOBS_COMPANY_ID", "ACME")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Warehouse.Password)
	assert.Equal(t, "ACME", cfg.Jobs.CompanyID)
}

func TestLoadRejectsNonPositiveBatchSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs:\n  batch_size: -5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Jobs.BatchSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestScoreEndpointDefaultsFromTenant(t *testing.T) {
	n := Netradyne{Tenant: "ACME"}
	assert.Equal(t, "https://api.netradyne.com/driveri/v1/tenants/ACME/fleetscore", n.ScoreEndpoint())

	n.ScoreURL = "https://example.test/scores"
	assert.Equal(t, "https://example.test/scores", n.ScoreEndpoint())
}

func TestDirFor(t *testing.T) {
	p := Paths{Scores: "a", HOS: "b", Inspections: "c", Maintenance: "d"}
	assert.Equal(t, "a", p.DirFor("scores"))
	assert.Equal(t, "b", p.DirFor("hos"))
	assert.Equal(t, "c", p.DirFor("inspections"))
	assert.Equal(t, "d", p.DirFor("maintenance"))
	assert.Equal(t, "", p.DirFor("unknown"))
}
