package domain

import (
	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
)

// CustomerProfileData is the contact section of a draft.
type CustomerProfileData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PickupReturnData is the pickup address section of a draft.
type PickupReturnData struct {
	Country     string `json:"country"`
	Locality    string `json:"locality"`
	Address     string `json:"address"`
	AddressType string `json:"address_type"`
}

// RefundPaymentData is the refund section of a draft. Bank refunds carry IBAN
// and account holder; other methods leave them empty.
type RefundPaymentData struct {
	RefundPaymentMethod string `json:"refund_payment_method"`
	IBAN                string `json:"iban,omitempty"`
	AccountHolderName   string `json:"account_holder_name,omitempty"`
}

// Draft is a customer-editable return request prior to validation.
type Draft struct {
	UserID  string `json:"user_id"`
	OrderID string `json:"order_id"`

	Items               []eligibilitydomain.EligibleItem `json:"items"`
	CustomerProfileData CustomerProfileData              `json:"customer_profile_data"`
	PickupReturnData    PickupReturnData                 `json:"pickup_return_data"`
	RefundPaymentData   *RefundPaymentData               `json:"refund_payment_data,omitempty"`
}

// SetQuantity sets the selected quantity for a SKU, clamped to
// [0, eligibleQuantity]. Unknown SKUs are ignored.
func (d *Draft) SetQuantity(skuID string, quantity int) {
	for idx := range d.Items {
		if d.Items[idx].SkuID != skuID {
			continue
		}
		if quantity < 0 {
			quantity = 0
		}
		if quantity > d.Items[idx].EligibleQuantity {
			quantity = d.Items[idx].EligibleQuantity
		}
		d.Items[idx].SelectedQuantity = quantity
		return
	}
}

// SetReasonCode sets the return reason for a SKU and clears any free-text
// detail entered for the previous reason.
func (d *Draft) SetReasonCode(skuID, reasonCode string) {
	for idx := range d.Items {
		if d.Items[idx].SkuID != skuID {
			continue
		}
		d.Items[idx].ReasonCode = reasonCode
		d.Items[idx].ReasonText = ""
		return
	}
}

// SetReasonText sets the free-text reason detail for a SKU.
func (d *Draft) SetReasonText(skuID, reasonText string) {
	for idx := range d.Items {
		if d.Items[idx].SkuID != skuID {
			continue
		}
		d.Items[idx].ReasonText = reasonText
		return
	}
}

// SetCondition sets the product condition for a SKU.
func (d *Draft) SetCondition(skuID, condition string) {
	for idx := range d.Items {
		if d.Items[idx].SkuID != skuID {
			continue
		}
		d.Items[idx].Condition = condition
		return
	}
}

// SelectedItems returns the items the customer chose to return.
func (d *Draft) SelectedItems() []eligibilitydomain.EligibleItem {
	selected := make([]eligibilitydomain.EligibleItem, 0, len(d.Items))
	for _, item := range d.Items {
		if item.SelectedQuantity > 0 {
			selected = append(selected, item)
		}
	}
	return selected
}
