// Package config loads the process-wide configuration. The Config value is
// built once at startup and passed explicitly to every component; nothing in
// this package keeps mutable state after Load returns.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups all settings by concern.
type Config struct {
	Warehouse Warehouse `mapstructure:"warehouse"`
	Netradyne Netradyne `mapstructure:"netradyne"`
	Portal    Portal    `mapstructure:"portal"`
	Jobs      Jobs      `mapstructure:"jobs"`
	Paths     Paths     `mapstructure:"paths"`
}

// Warehouse holds the data warehouse connection parameters.
type Warehouse struct {
	Dialect  string `mapstructure:"dialect"` // mysql, postgres or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// DSN overrides the individual fields when set (also the sqlite path).
	DSN string `mapstructure:"dsn"`
}

// Netradyne holds the vendor API credentials and endpoints.
type Netradyne struct {
	BasicAuth   string        `mapstructure:"basic_auth"`
	Tenant      string        `mapstructure:"tenant"`
	AuthURL     string        `mapstructure:"auth_url"`
	ScoreURL    string        `mapstructure:"score_url"`
	AuthTimeout time.Duration `mapstructure:"auth_timeout"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// ScoreEndpoint returns the fleet score URL, deriving the tenant-scoped
// default when none is configured explicitly.
func (n Netradyne) ScoreEndpoint() string {
	if n.ScoreURL != "" {
		return n.ScoreURL
	}
	return fmt.Sprintf("https://api.netradyne.com/driveri/v1/tenants/%s/fleetscore", n.Tenant)
}

// Portal holds the vendor web console credentials. The console session itself
// is driven externally; the ETL only consumes the files it drops.
type Portal struct {
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	LoginURL    string `mapstructure:"login_url"`
	DownloadDir string `mapstructure:"download_dir"`
}

// Jobs binds pipelines to ledger job ids and processing knobs.
type Jobs struct {
	BatchSize int    `mapstructure:"batch_size"`
	CompanyID string `mapstructure:"company_id"` // driver roster scope for inspection lookups
}

// Paths holds the per-domain source drop directories.
type Paths struct {
	Scores      string `mapstructure:"scores"`
	HOS         string `mapstructure:"hos"`
	Inspections string `mapstructure:"inspections"`
	Maintenance string `mapstructure:"maintenance"`
}

// DirFor returns the default drop directory for a pipeline name.
func (p Paths) DirFor(pipeline string) string {
	switch pipeline {
	case "scores":
		return p.Scores
	case "hos":
		return p.HOS
	case "inspections":
		return p.Inspections
	case "maintenance":
		return p.Maintenance
	}
	return ""
}

// Load reads configuration from the given file (optional) and the
// environment. Environment variables use the SCORECARD_ prefix with
// underscores, e.g. SCORECARD_WAREHOUSE_PASSWORD.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("warehouse.dialect", "postgres")
	v.SetDefault("warehouse.port", 5432)
	// Empty defaults register the secret-bearing keys so that env-only
	// overrides reach Unmarshal.
	v.SetDefault("warehouse.host", "")
	v.SetDefault("warehouse.database", "")
	v.SetDefault("warehouse.user", "")
	v.SetDefault("warehouse.password", "")
	v.SetDefault("warehouse.dsn", "")
	v.SetDefault("netradyne.basic_auth", "")
	v.SetDefault("netradyne.tenant", "")
	v.SetDefault("netradyne.score_url", "")
	v.SetDefault("portal.username", "")
	v.SetDefault("portal.password", "")
	v.SetDefault("portal.login_url", "")
	v.SetDefault("portal.download_dir", "")
	v.SetDefault("netradyne.auth_url", "https://api.netradyne.com/driveri/v1/auth/token")
	v.SetDefault("netradyne.auth_timeout", 30*time.Second)
	v.SetDefault("netradyne.fetch_timeout", 60*time.Second)
	v.SetDefault("jobs.batch_size", 1000)
	v.SetDefault("jobs.company_id", "TMS")
	v.SetDefault("paths.scores", "netradyne_score_data")
	v.SetDefault("paths.hos", "hos_violations_data")
	v.SetDefault("paths.inspections", "dot_inspection_data")
	v.SetDefault("paths.maintenance", "programmed_maintenance")

	v.SetEnvPrefix("SCORECARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("scorecard-etl")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/scorecard-etl")
		if err := v.ReadInConfig(); err != nil {
			// Config file is optional; env vars and defaults may be enough.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Jobs.BatchSize <= 0 {
		cfg.Jobs.BatchSize = 1000
	}

	return &cfg, nil
}
