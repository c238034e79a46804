// Package domain defines eligibility outcomes for returnable order items.
package domain

import (
	"context"
	"errors"

	orderdomain "github.com/smallbiznis/returnly/internal/order/domain"
)

// EligibleItem is an order line the customer may still return, carrying the
// fields the customer fills in while editing the draft.
type EligibleItem struct {
	SkuID            string `json:"sku_id"`
	Name             string `json:"name"`
	ImageURL         string `json:"image_url"`
	UnitPrice        int64  `json:"unit_price"`
	OrderedQuantity  int    `json:"ordered_quantity"`
	EligibleQuantity int    `json:"eligible_quantity"`

	SelectedQuantity int    `json:"selected_quantity"`
	Condition        string `json:"condition"`
	ReasonCode       string `json:"reason_code"`
	ReasonText       string `json:"reason_text"`
}

// Outcome is the tagged result of evaluating a single item.
type Outcome struct {
	Eligible         bool
	EligibleQuantity int
	// OverClaimed marks claimed > ordered, a data-integrity signal worth
	// logging but not surfacing to the customer.
	OverClaimed bool
}

// EligibleOrder is an order with at least one eligible item.
type EligibleOrder struct {
	Order orderdomain.Order `json:"order"`
	Items []EligibleItem    `json:"items"`
}

// Failure records one unit-level fetch failure during aggregation.
type Failure struct {
	OrderID string `json:"order_id"`
	SkuID   string `json:"sku_id,omitempty"`
	Reason  string `json:"reason"`
}

// AggregationResult is the full outcome of one aggregation run. Orders keep
// the recency order of the invoiced-order listing regardless of evaluation
// completion order.
type AggregationResult struct {
	Orders   []EligibleOrder `json:"orders"`
	Partial  bool            `json:"partial"`
	Failures []Failure       `json:"failures,omitempty"`
}

// Service aggregates the orders a customer may currently request returns for.
type Service interface {
	Aggregate(ctx context.Context, customerEmail string) (*AggregationResult, error)
}

var (
	ErrSettingsNotConfigured = errors.New("return_settings_not_configured")
	ErrProfileUnavailable    = errors.New("customer_profile_unavailable")
)
