// Package order provides the gorm-backed order-history store.
package order

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/returnly/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StoreParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

// Store reads order snapshots replicated from the order-history source.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStore(p StoreParam) domain.Store {
	return &Store{
		db:  p.DB,
		log: p.Log.Named("order.store"),
	}
}

func (s *Store) ListInvoiced(ctx context.Context, clientEmail string) ([]domain.OrderSummary, error) {
	email := strings.TrimSpace(clientEmail)
	if email == "" {
		return nil, domain.ErrProfileNotFound
	}

	var summaries []domain.OrderSummary
	err := s.db.WithContext(ctx).
		Table("orders").
		Select("order_id, creation_date").
		Where("client_email = ? AND status = ?", email, domain.StatusInvoiced).
		Order("creation_date DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Store) GetDetail(ctx context.Context, orderID, clientEmail string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrOrderNotFound
	}

	var record domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ? AND client_email = ?", orderID, strings.TrimSpace(clientEmail)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ProfileStore resolves customer profiles from the profile table.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) domain.ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Profile{}, domain.ErrProfileNotFound
	}

	var record domain.CustomerProfile
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, err
	}

	// Name prefills only when both parts are present, matching the storefront.
	name := ""
	if record.FirstName != "" && record.LastName != "" {
		name = record.FirstName + " " + record.LastName
	}
	return domain.Profile{
		UserID: record.UserID,
		Name:   name,
		Email:  record.Email,
		Phone:  record.Phone,
	}, nil
}

var Module = fx.Module("order.store",
	fx.Provide(NewStore),
	fx.Provide(NewProfileStore),
)
