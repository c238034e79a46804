// Package service implements the return settings service.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/smallbiznis/returnly/internal/cache"
	"github.com/smallbiznis/returnly/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The settings table holds exactly one row.
const settingsRecordID int64 = 1

const cacheTTL = 30 * time.Second

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cache cache.Cache[int64, *domain.ReturnSettings] `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cache cache.Cache[int64, *domain.ReturnSettings]
}

func NewService(p ServiceParam) domain.Service {
	settingsCache := p.Cache
	if settingsCache == nil {
		settingsCache = cache.NoopCache[int64, *domain.ReturnSettings]{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		cache: settingsCache,
	}
}

func (s *Service) Get(ctx context.Context) (*domain.ReturnSettings, error) {
	if cached, ok := s.cache.Get(settingsRecordID); ok {
		return cached, nil
	}

	var record domain.ReturnSettings
	err := s.db.WithContext(ctx).First(&record, settingsRecordID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotConfigured
		}
		return nil, err
	}

	s.cache.Set(settingsRecordID, &record, cacheTTL)
	return &record, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (*domain.ReturnSettings, error) {
	if req.MaxDays <= 0 {
		return nil, domain.ErrInvalidMaxDays
	}

	excluded := req.ExcludedCategories
	if excluded == nil {
		excluded = []domain.ExcludedCategory{}
	}
	raw, err := json.Marshal(excluded)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := domain.ReturnSettings{
		ID:                 settingsRecordID,
		MaxDays:            req.MaxDays,
		ExcludedCategories: datatypes.JSON(raw),
		TermsURL:           req.TermsURL,
		UpdatedAt:          now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.ReturnSettings
		findErr := tx.First(&existing, settingsRecordID).Error
		if findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			record.CreatedAt = now
			return tx.Create(&record).Error
		}
		record.CreatedAt = existing.CreatedAt
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(settingsRecordID)
	s.log.Info("return settings updated", zap.Int("max_days", record.MaxDays), zap.Int("excluded_categories", len(excluded)))
	return &record, nil
}
