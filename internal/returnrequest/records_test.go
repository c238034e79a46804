package returnrequest

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/returnly/internal/returnrequest/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRecordsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.ReturnRequestItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func insertClaim(t *testing.T, db *gorm.DB, id int64, userID, orderID, skuID string, quantity int) {
	t.Helper()
	item := domain.ReturnRequestItem{
		ID:       snowflake.ID(id),
		UserID:   userID,
		OrderID:  orderID,
		SkuID:    skuID,
		Quantity: quantity,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("insert claim: %v", err)
	}
}

func TestSumClaimedQuantity(t *testing.T) {
	db := setupRecordsTestDB(t)
	store := NewRecordStore(RecordStoreParam{DB: db})

	insertClaim(t, db, 1, "user-1", "order-1", "sku-1", 2)
	insertClaim(t, db, 2, "user-1", "order-1", "sku-1", 1)
	insertClaim(t, db, 3, "user-1", "order-1", "sku-2", 4)
	insertClaim(t, db, 4, "user-2", "order-1", "sku-1", 9)
	insertClaim(t, db, 5, "user-1", "order-2", "sku-1", 9)

	total, err := store.SumClaimedQuantity(context.Background(), "user-1", "order-1", "sku-1")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3, got %d", total)
	}
}

func TestSumClaimedQuantityEmpty(t *testing.T) {
	db := setupRecordsTestDB(t)
	store := NewRecordStore(RecordStoreParam{DB: db})

	total, err := store.SumClaimedQuantity(context.Background(), "user-1", "order-1", "sku-none")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0 for unclaimed sku, got %d", total)
	}
}
