package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/smallbiznis/returnly/internal/cache"
	"github.com/smallbiznis/returnly/internal/settings/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.ReturnSettings{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestSettingsService(db *gorm.DB) domain.Service {
	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Cache: cache.NewSettingsResolverCache(),
	})
}

func TestGetNotConfigured(t *testing.T) {
	svc := newTestSettingsService(setupSettingsTestDB(t))

	_, err := svc.Get(context.Background())
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestUpdateThenGet(t *testing.T) {
	svc := newTestSettingsService(setupSettingsTestDB(t))

	updated, err := svc.Update(context.Background(), domain.UpdateSettingsRequest{
		MaxDays:            45,
		ExcludedCategories: []domain.ExcludedCategory{{ID: "cat-1"}},
		TermsURL:           "https://example.com/returns",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MaxDays != 45 {
		t.Fatalf("expected max days 45, got %d", updated.MaxDays)
	}

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	exclusions := got.Exclusions()
	if len(exclusions) != 1 || exclusions[0].ID != "cat-1" {
		t.Fatalf("expected cat-1 exclusion, got %+v", exclusions)
	}
}

func TestUpdateRejectsInvalidMaxDays(t *testing.T) {
	svc := newTestSettingsService(setupSettingsTestDB(t))

	_, err := svc.Update(context.Background(), domain.UpdateSettingsRequest{MaxDays: 0})
	if !errors.Is(err, domain.ErrInvalidMaxDays) {
		t.Fatalf("expected invalid max days, got %v", err)
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc := newTestSettingsService(db)

	if _, err := svc.Update(context.Background(), domain.UpdateSettingsRequest{MaxDays: 30}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	if _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	if _, err := svc.Update(context.Background(), domain.UpdateSettingsRequest{MaxDays: 60}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.MaxDays != 60 {
		t.Fatalf("stale cache entry survived, got max days %d", got.MaxDays)
	}
}

func TestGetCachesWithinTTL(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc := newTestSettingsService(db)

	if _, err := svc.Update(context.Background(), domain.UpdateSettingsRequest{MaxDays: 30}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	if _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// Mutate the row behind the service; a cached read must not see it.
	if err := db.Exec(`UPDATE return_settings SET max_days = 99 WHERE id = 1`).Error; err != nil {
		t.Fatalf("raw update: %v", err)
	}

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MaxDays != 30 {
		t.Fatalf("expected cached value 30 within %s, got %d", cacheTTL, got.MaxDays)
	}
}
