package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/returnly/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}, &domain.CustomerProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func insertOrder(t *testing.T, db *gorm.DB, orderID, email, status string, creation time.Time) {
	t.Helper()
	order := domain.Order{
		OrderID:      orderID,
		UserID:       "user-1",
		ClientEmail:  email,
		Status:       status,
		CreationDate: creation,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("insert order: %v", err)
	}
}

func TestListInvoicedFiltersAndSorts(t *testing.T) {
	db := setupOrderTestDB(t)
	store := NewStore(StoreParam{DB: db, Log: zap.NewNop()})

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	insertOrder(t, db, "order-old", "ana@example.com", domain.StatusInvoiced, base)
	insertOrder(t, db, "order-new", "ana@example.com", domain.StatusInvoiced, base.AddDate(0, 0, 5))
	insertOrder(t, db, "order-open", "ana@example.com", "handling", base.AddDate(0, 0, 6))
	insertOrder(t, db, "order-other", "bob@example.com", domain.StatusInvoiced, base.AddDate(0, 0, 7))

	summaries, err := store.ListInvoiced(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("list invoiced: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].OrderID != "order-new" || summaries[1].OrderID != "order-old" {
		t.Fatalf("expected newest first, got %+v", summaries)
	}
}

func TestGetDetailLoadsItems(t *testing.T) {
	db := setupOrderTestDB(t)
	store := NewStore(StoreParam{DB: db, Log: zap.NewNop()})

	insertOrder(t, db, "order-1", "ana@example.com", domain.StatusInvoiced, time.Now().UTC())
	item := domain.OrderItem{ID: snowflake.ID(1), OrderID: "order-1", SkuID: "sku-1", Name: "Trail Shoe", Quantity: 2, UnitPrice: 1500}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("insert item: %v", err)
	}

	order, err := store.GetDetail(context.Background(), "order-1", "ana@example.com")
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].SkuID != "sku-1" {
		t.Fatalf("expected one item, got %+v", order.Items)
	}
}

func TestGetDetailScopedToCustomer(t *testing.T) {
	db := setupOrderTestDB(t)
	store := NewStore(StoreParam{DB: db, Log: zap.NewNop()})

	insertOrder(t, db, "order-1", "ana@example.com", domain.StatusInvoiced, time.Now().UTC())

	_, err := store.GetDetail(context.Background(), "order-1", "bob@example.com")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found for another customer, got %v", err)
	}
}

func TestProfileNameRequiresBothParts(t *testing.T) {
	db := setupOrderTestDB(t)
	store := NewProfileStore(db)

	profile := domain.CustomerProfile{ID: snowflake.ID(10), UserID: "user-1", FirstName: "Ana", Email: "ana@example.com", Phone: "+40712345678"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("insert profile: %v", err)
	}

	got, err := store.GetByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Name != "" {
		t.Fatalf("half a name must not prefill, got %q", got.Name)
	}
	if got.UserID != "user-1" || got.Phone != "+40712345678" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestProfileNotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	store := NewProfileStore(db)

	_, err := store.GetByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}
