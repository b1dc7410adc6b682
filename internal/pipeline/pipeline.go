// Package pipeline implements the shared normalize, build, dedup and load
// machinery behind the four ETL pipelines. Domains differ only in their
// descriptor: record type, alias schema, natural key, and insert target.
package pipeline

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Record is any canonical record with a stable natural key.
type Record interface {
	Key() string
}

// Hold names the reason a record was withheld from insertion by a domain's
// finalizer (e.g. an inspection whose license number resolves to no driver).
type Hold string

const (
	// HoldNone admits the record.
	HoldNone Hold = ""
	// HoldDriverNotFound withholds an inspection with an unresolvable license.
	HoldDriverNotFound Hold = "driver_not_found"
)

// Descriptor bundles the policy the generic stages need for one domain.
type Descriptor[T Record] struct {
	Name  string
	JobID int

	// Exists probes the store for the record's natural key.
	Exists func(db *gorm.DB, rec T) (bool, error)

	// Finalize, when set, completes a record with store-derived data before
	// insertion and may withhold it. Called after the duplicate check.
	Finalize func(db *gorm.DB, rec T) (T, Hold, error)

	// EnsureTable creates the target table before the first insert when the
	// warehouse does not pre-provision it (maintenance).
	EnsureTable func(db *gorm.DB) error
}

// Execute runs the dedup gate and the batched loader over built records.
// Returns a fatal error only for lost-connection conditions; everything else
// is aggregated into the result counters.
func Execute[T Record](db *gorm.DB, desc Descriptor[T], records []T, batchSize int, res *Summary) error {
	if desc.EnsureTable != nil {
		if err := desc.EnsureTable(db); err != nil {
			return err
		}
	}

	gate := newGate(db, desc.Exists)
	var admitted []T

	for _, rec := range records {
		ok, err := gate.Admit(rec)
		if err != nil {
			if IsConnectionLost(err) {
				return err
			}
			res.Errors++
			continue
		}
		if !ok {
			res.Duplicates++
			continue
		}

		if desc.Finalize != nil {
			final, hold, err := desc.Finalize(db, rec)
			if err != nil {
				if IsConnectionLost(err) {
					return err
				}
				res.Errors++
				continue
			}
			if hold != HoldNone {
				res.held(hold)
				continue
			}
			rec = final
		}
		admitted = append(admitted, rec)
	}

	loader := newLoader[T](db, batchSize)
	return loader.Load(admitted, res)
}

// IsConnectionLost reports whether err means the warehouse connection is
// gone, which aborts the run rather than being counted per batch.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"bad connection",
		"broken pipe",
		"database is closed",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// ReportMonth returns the first day of the month before now, in UTC. It is
// computed once per invocation and applied uniformly to every record.
func ReportMonth(now time.Time) time.Time {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfCurrent.AddDate(0, -1, 0)
}

// RunDate returns now truncated to the day, in UTC.
func RunDate(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
