package warehouse

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fleetops/scorecard-etl/internal/domain"
)

// DriverLookup resolves license numbers to driver ids against the dispatch
// system's roster table, scoped to one company.
type DriverLookup struct {
	db        *gorm.DB
	companyID string
}

// NewDriverLookup creates a lookup scoped to the given company id.
func NewDriverLookup(db *gorm.DB, companyID string) *DriverLookup {
	return &DriverLookup{db: db, companyID: companyID}
}

// Resolve returns the driver id for a license number. A license with no
// matching roster row returns ("", false, nil); that is a countable
// condition, not an error.
func (l *DriverLookup) Resolve(licenseNumber string) (string, bool, error) {
	var driver domain.Driver
	err := l.db.
		Where("license_no = ? AND company_id = ?", licenseNumber, l.companyID).
		First(&driver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("look up driver for license %s: %w", licenseNumber, err)
	}
	return strings.TrimSpace(driver.ID), true, nil
}
