// Package warehouse owns access to the relational data warehouse: dialect
// selection, scoped connection lifecycle, and the read-side driver roster
// lookup used by the inspection pipeline.
package warehouse

import (
	"fmt"

	gosqlmysql "github.com/go-sql-driver/mysql"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fleetops/scorecard-etl/internal/config"
)

// Open connects to the configured warehouse and returns the handle plus a
// release func. One connection is acquired per pipeline invocation; callers
// defer the release so it runs on every exit path.
func Open(cfg config.Warehouse) (*gorm.DB, func(), error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case "mysql":
		dialector = mysql.Open(mysqlDSN(cfg))
	case "postgres":
		dialector = postgres.Open(postgresDSN(cfg))
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Database
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, nil, fmt.Errorf("unknown warehouse dialect %q", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s warehouse: %w", cfg.Dialect, err)
	}

	release := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, release, nil
}

func mysqlDSN(cfg config.Warehouse) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	mc := gosqlmysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Database
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.ParseTime = true
	return mc.FormatDSN()
}

func postgresDSN(cfg config.Warehouse) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)
}
