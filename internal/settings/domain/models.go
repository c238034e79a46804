// Package domain defines the return settings record and its contracts.
package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ExcludedCategory marks a product category as non-returnable.
type ExcludedCategory struct {
	ID string `json:"id"`
}

// ReturnSettings is the single configuration record driving eligibility.
type ReturnSettings struct {
	ID                 int64          `gorm:"primaryKey" json:"id"`
	MaxDays            int            `gorm:"not null" json:"max_days"`
	ExcludedCategories datatypes.JSON `gorm:"type:jsonb" json:"excluded_categories"`
	TermsURL           string         `gorm:"type:text" json:"terms_url"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (ReturnSettings) TableName() string { return "return_settings" }

// Exclusions decodes the configured excluded categories. A missing or
// malformed payload reads as "no exclusions".
func (s *ReturnSettings) Exclusions() []ExcludedCategory {
	if s == nil || len(s.ExcludedCategories) == 0 {
		return nil
	}
	var categories []ExcludedCategory
	if err := json.Unmarshal(s.ExcludedCategories, &categories); err != nil {
		return nil
	}
	return categories
}
