// Package seed bootstraps the rows the service cannot run without.
package seed

import (
	"context"
	"errors"

	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultSettingsID = 1
	defaultMaxDays    = 30
)

// EnsureDefaultSettings creates the return settings row when none exists, so
// a fresh install answers eligibility queries instead of failing with a
// precondition error.
func EnsureDefaultSettings(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing settingsdomain.ReturnSettings
		err := tx.First(&existing, "id = ?", defaultSettingsID).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&settingsdomain.ReturnSettings{
			ID:                 defaultSettingsID,
			MaxDays:            defaultMaxDays,
			ExcludedCategories: datatypes.JSON("[]"),
		}).Error
	})
}
