package returnrequest

import (
	"context"

	"github.com/smallbiznis/returnly/internal/returnrequest/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type RecordStoreParam struct {
	fx.In

	DB *gorm.DB
}

type recordStore struct {
	db *gorm.DB
}

func NewRecordStore(p RecordStoreParam) domain.RecordStore {
	return &recordStore{db: p.DB}
}

// SumClaimedQuantity returns the total quantity already requested for one unit
// across every prior return request of the customer, regardless of status.
func (s *recordStore) SumClaimedQuantity(ctx context.Context, userID, orderID, skuID string) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(quantity), 0)
		FROM return_request_items
		WHERE user_id = ? AND order_id = ? AND sku_id = ?
	`, userID, orderID, skuID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
