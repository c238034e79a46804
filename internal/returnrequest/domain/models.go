// Package domain contains the return request aggregate and its business rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Request lifecycle statuses.
const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusDenied     = "denied"
	StatusRefunded   = "refunded"
)

// Operator transitions per current status. Denied and refunded are terminal.
var statusTransitions = map[string][]string{
	StatusNew:        {StatusProcessing, StatusApproved, StatusDenied},
	StatusProcessing: {StatusApproved, StatusDenied},
	StatusApproved:   {StatusRefunded},
}

// CanTransition reports whether an operator may move a request from one
// lifecycle status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Refund payment methods.
const (
	PaymentMethodBank    = "bank"
	PaymentMethodCard    = "card"
	PaymentMethodVoucher = "voucher"
)

// ReasonCodeOther requires free-text detail from the customer.
const ReasonCodeOther = "otherReason"

// ReturnRequest is the persisted header of a submitted return.
type ReturnRequest struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID  string       `gorm:"type:text;not null;index" json:"user_id"`
	OrderID string       `gorm:"type:text;not null;index" json:"order_id"`

	Name  string `gorm:"type:text;not null" json:"name"`
	Email string `gorm:"type:text;not null;index" json:"email"`
	Phone string `gorm:"type:text;not null" json:"phone"`

	Country     string `gorm:"type:text;not null" json:"country"`
	Locality    string `gorm:"type:text;not null" json:"locality"`
	Address     string `gorm:"type:text;not null" json:"address"`
	AddressType string `gorm:"type:text;not null" json:"address_type"`

	PaymentMethod string `gorm:"type:text;not null" json:"payment_method"`
	IBAN          string `gorm:"type:text" json:"-"`
	AccountHolder string `gorm:"type:text" json:"-"`

	TotalPrice     int64  `gorm:"not null" json:"total_price"`
	RefundedAmount int64  `gorm:"not null;default:0" json:"refunded_amount"`
	VoucherCode    string `gorm:"type:text" json:"voucher_code,omitempty"`

	Status    string    `gorm:"type:text;not null;index" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ReturnRequest) TableName() string { return "return_requests" }

// ReturnRequestItem is one returned product line.
type ReturnRequestItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	RequestID snowflake.ID `gorm:"not null;index" json:"request_id"`
	UserID    string       `gorm:"type:text;not null;index:idx_return_items_claim,priority:1" json:"user_id"`
	OrderID   string       `gorm:"type:text;not null;index:idx_return_items_claim,priority:2" json:"order_id"`
	SkuID     string       `gorm:"type:text;not null;index:idx_return_items_claim,priority:3" json:"sku_id"`

	SkuName    string `gorm:"type:text;not null" json:"sku_name"`
	ImageURL   string `gorm:"type:text" json:"image_url"`
	Condition  string `gorm:"type:text;not null" json:"condition"`
	ReasonCode string `gorm:"type:text;not null" json:"reason_code"`
	Reason     string `gorm:"type:text" json:"reason"`

	UnitPrice  int64 `gorm:"not null" json:"unit_price"`
	Quantity   int   `gorm:"not null" json:"quantity"`
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	Status    string    `gorm:"type:text;not null" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ReturnRequestItem) TableName() string { return "return_request_items" }

// StatusHistoryEntry records one status change of a return request.
type StatusHistoryEntry struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	RequestID   snowflake.ID `gorm:"not null;index" json:"request_id"`
	Status      string       `gorm:"type:text;not null" json:"status"`
	SubmittedBy string       `gorm:"type:text;not null" json:"submitted_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (StatusHistoryEntry) TableName() string { return "return_status_history" }
