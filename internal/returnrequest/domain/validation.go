package domain

import (
	"strings"

	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
)

// ErrorCategory names one user-correctable validation failure.
type ErrorCategory string

const (
	CategoryNoItemSelected    ErrorCategory = "no-item-selected"
	CategoryReasonOrCondition ErrorCategory = "reason-or-condition"
	CategoryCustomerData      ErrorCategory = "customer-data"
	CategoryPickupData        ErrorCategory = "pickup-data"
	CategoryRefundPaymentData ErrorCategory = "refund-payment-data"
	CategoryBankDetails       ErrorCategory = "bank-details"
)

// ValidationResult is the outcome of validating a draft. Exactly one of
// Errors/ValidatedFields is populated unless Internal is set, which indicates
// an upstream integration defect (missing address type) rather than a
// user-correctable failure.
type ValidationResult struct {
	Errors          []ErrorCategory
	Internal        bool
	ValidatedFields *Draft
}

// OK reports whether the draft passed validation.
func (r ValidationResult) OK() bool {
	return !r.Internal && len(r.Errors) == 0 && r.ValidatedFields != nil
}

// ValidateDraft checks a fully-assembled draft against the business-rule set.
// All applicable checks run and every distinct failure category is collected;
// only a missing refund section or a missing address type short-circuits.
func ValidateDraft(draft Draft) ValidationResult {
	var errs []ErrorCategory

	selected := draft.SelectedItems()
	if len(selected) == 0 {
		errs = appendCategory(errs, CategoryNoItemSelected)
	}

	reasonComplete := make([]eligibilitydomain.EligibleItem, 0, len(selected))
	for _, item := range selected {
		if itemHasConditionAndReason(item) {
			reasonComplete = append(reasonComplete, item)
		}
	}
	if len(reasonComplete) != len(selected) {
		errs = appendCategory(errs, CategoryReasonOrCondition)
	}

	profile := draft.CustomerProfileData
	for _, field := range []string{profile.Name, profile.Email, profile.Phone} {
		if strings.TrimSpace(field) == "" {
			errs = appendCategory(errs, CategoryCustomerData)
		}
	}

	pickup := draft.PickupReturnData
	for _, field := range []string{pickup.Country, pickup.Locality, pickup.Address} {
		if strings.TrimSpace(field) == "" {
			errs = appendCategory(errs, CategoryPickupData)
		}
	}

	refund := draft.RefundPaymentData
	if refund == nil || strings.TrimSpace(refund.RefundPaymentMethod) == "" {
		errs = appendCategory(errs, CategoryRefundPaymentData)
		return ValidationResult{Errors: errs}
	}

	if refund.RefundPaymentMethod == PaymentMethodBank {
		if strings.TrimSpace(refund.IBAN) == "" || strings.TrimSpace(refund.AccountHolderName) == "" {
			errs = appendCategory(errs, CategoryBankDetails)
		}
	}

	// A draft reaching validation without an address type is an integration
	// defect, not something the customer can fix.
	if strings.TrimSpace(pickup.AddressType) == "" {
		return ValidationResult{Errors: errs, Internal: true}
	}

	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	validated := draft
	validated.Items = reasonComplete
	validated.PickupReturnData.AddressType = pickup.AddressType
	return ValidationResult{ValidatedFields: &validated}
}

func itemHasConditionAndReason(item eligibilitydomain.EligibleItem) bool {
	if strings.TrimSpace(item.Condition) == "" {
		return false
	}
	if strings.TrimSpace(item.ReasonCode) == "" {
		return false
	}
	if item.ReasonCode == ReasonCodeOther && strings.TrimSpace(item.ReasonText) == "" {
		return false
	}
	return true
}

func appendCategory(errs []ErrorCategory, category ErrorCategory) []ErrorCategory {
	for _, existing := range errs {
		if existing == category {
			return errs
		}
	}
	return append(errs, category)
}
