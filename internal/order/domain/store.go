package domain

import "context"

// Store reads invoiced orders from the order-history source.
type Store interface {
	ListInvoiced(ctx context.Context, clientEmail string) ([]OrderSummary, error)
	GetDetail(ctx context.Context, orderID, clientEmail string) (*Order, error)
}

// ProfileStore resolves the requesting customer's profile.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (Profile, error)
}
