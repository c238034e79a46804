package domain

import "context"

// RecordStore aggregates quantities already claimed in prior return requests.
type RecordStore interface {
	// SumClaimedQuantity sums quantity over every prior product line matching
	// (userID, orderID, skuID).
	SumClaimedQuantity(ctx context.Context, userID, orderID, skuID string) (int, error)
}
