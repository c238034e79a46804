package domain

import (
	"context"
	"errors"
)

// Service exposes the return settings record.
type Service interface {
	Get(ctx context.Context) (*ReturnSettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*ReturnSettings, error)
}

// UpdateSettingsRequest replaces the settings record.
type UpdateSettingsRequest struct {
	MaxDays            int
	ExcludedCategories []ExcludedCategory
	TermsURL           string
}

var (
	ErrNotConfigured  = errors.New("return_settings_not_configured")
	ErrInvalidMaxDays = errors.New("invalid_max_days")
)
