// Package domain defines the order-history snapshot consumed by eligibility.
package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Category is a product category attached to an order item.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// OrderSummary is one row of the invoiced-order listing, newest first.
type OrderSummary struct {
	OrderID      string    `json:"order_id"`
	CreationDate time.Time `json:"creation_date"`
}

// Order is an immutable order snapshot from the order-history source.
type Order struct {
	OrderID            string         `gorm:"primaryKey;column:order_id" json:"order_id"`
	UserID             string         `gorm:"type:text;not null;index" json:"user_id"`
	ClientEmail        string         `gorm:"type:text;not null;index" json:"client_email"`
	ClientName         string         `gorm:"type:text" json:"client_name"`
	ClientPhone        string         `gorm:"type:text" json:"client_phone"`
	Status             string         `gorm:"type:text;not null" json:"status"`
	CreationDate       time.Time      `gorm:"not null;index" json:"creation_date"`
	ShippingCountry    string         `gorm:"type:text" json:"shipping_country"`
	ShippingCity       string         `gorm:"type:text" json:"shipping_city"`
	ShippingStreet     string         `gorm:"type:text" json:"shipping_street"`
	ShippingNumber     string         `gorm:"type:text" json:"shipping_number"`
	ShippingComplement *string        `gorm:"type:text" json:"shipping_complement,omitempty"`
	// ShippingAddressType is sourced from the order pipeline; some feeds
	// omit it, which downstream validation treats as an integration defect.
	ShippingAddressType *string     `gorm:"type:text" json:"shipping_address_type,omitempty"`
	Items               []OrderItem `gorm:"foreignKey:OrderID;references:OrderID" json:"items"`
	CreatedAt           time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// OrderItem is one invoiced line of an order.
type OrderItem struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"-"`
	OrderID    string         `gorm:"type:text;not null;index" json:"order_id"`
	SkuID      string         `gorm:"type:text;not null;index" json:"sku_id"`
	Name       string         `gorm:"type:text;not null" json:"name"`
	ImageURL   string         `gorm:"type:text" json:"image_url"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	UnitPrice  int64          `gorm:"not null" json:"unit_price"`
	Categories datatypes.JSON `gorm:"type:jsonb" json:"categories"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (OrderItem) TableName() string { return "order_items" }

// CategoryList decodes the item's categories. A malformed payload reads as
// "no categories" rather than failing the item.
func (i OrderItem) CategoryList() []Category {
	if len(i.Categories) == 0 {
		return nil
	}
	var categories []Category
	if err := json.Unmarshal(i.Categories, &categories); err != nil {
		return nil
	}
	return categories
}

// PickupAddress renders the order's shipping address as a single pickup line.
func (o *Order) PickupAddress() string {
	address := strings.TrimSpace(o.ShippingStreet + " " + o.ShippingNumber)
	if o.ShippingComplement != nil && strings.TrimSpace(*o.ShippingComplement) != "" {
		address += ", " + strings.TrimSpace(*o.ShippingComplement)
	}
	return address
}

// Profile identifies the customer requesting a return.
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// CustomerProfile is the stored profile row behind Profile.
type CustomerProfile struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"-"`
	UserID    string       `gorm:"type:text;not null;uniqueIndex" json:"user_id"`
	FirstName string       `gorm:"type:text" json:"first_name"`
	LastName  string       `gorm:"type:text" json:"last_name"`
	Email     string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Phone     string       `gorm:"type:text" json:"phone"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (CustomerProfile) TableName() string { return "customer_profiles" }

const StatusInvoiced = "invoiced"

var (
	ErrOrderNotFound   = errors.New("order_not_found")
	ErrProfileNotFound = errors.New("profile_not_found")
)
