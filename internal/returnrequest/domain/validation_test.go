package domain

import (
	"testing"

	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
)

func completeDraft() Draft {
	return Draft{
		UserID:  "user-1",
		OrderID: "order-1",
		Items: []eligibilitydomain.EligibleItem{
			{
				SkuID:            "sku-1",
				EligibleQuantity: 3,
				SelectedQuantity: 2,
				Condition:        "unopened",
				ReasonCode:       "wrongSize",
			},
			{
				SkuID:            "sku-2",
				EligibleQuantity: 1,
				SelectedQuantity: 0,
			},
		},
		CustomerProfileData: CustomerProfileData{
			Name:  "Ana Pop",
			Email: "ana@example.com",
			Phone: "+40712345678",
		},
		PickupReturnData: PickupReturnData{
			Country:     "Romania",
			Locality:    "Bucharest",
			Address:     "Strada Lunga 12",
			AddressType: "residential",
		},
		RefundPaymentData: &RefundPaymentData{
			RefundPaymentMethod: PaymentMethodVoucher,
		},
	}
}

func hasCategory(categories []ErrorCategory, want ErrorCategory) bool {
	for _, category := range categories {
		if category == want {
			return true
		}
	}
	return false
}

func TestValidateDraftSuccessNarrowsItems(t *testing.T) {
	result := ValidateDraft(completeDraft())
	if !result.OK() {
		t.Fatalf("expected valid draft, got errors %v internal %v", result.Errors, result.Internal)
	}
	if len(result.ValidatedFields.Items) != 1 {
		t.Fatalf("expected only the selected, reason-complete item, got %d", len(result.ValidatedFields.Items))
	}
	if result.ValidatedFields.Items[0].SkuID != "sku-1" {
		t.Fatalf("expected sku-1, got %s", result.ValidatedFields.Items[0].SkuID)
	}
}

func TestValidateDraftNoItemSelected(t *testing.T) {
	draft := completeDraft()
	for idx := range draft.Items {
		draft.Items[idx].SelectedQuantity = 0
	}

	result := ValidateDraft(draft)
	if result.OK() {
		t.Fatalf("expected failure")
	}
	if !hasCategory(result.Errors, CategoryNoItemSelected) {
		t.Fatalf("expected no-item-selected, got %v", result.Errors)
	}
}

func TestValidateDraftMissingReason(t *testing.T) {
	draft := completeDraft()
	draft.Items[0].ReasonCode = ""

	result := ValidateDraft(draft)
	if !hasCategory(result.Errors, CategoryReasonOrCondition) {
		t.Fatalf("expected reason-or-condition, got %v", result.Errors)
	}
}

func TestValidateDraftOtherReasonNeedsText(t *testing.T) {
	draft := completeDraft()
	draft.Items[0].ReasonCode = ReasonCodeOther
	draft.Items[0].ReasonText = "   "

	result := ValidateDraft(draft)
	if !hasCategory(result.Errors, CategoryReasonOrCondition) {
		t.Fatalf("blank free-text detail must fail otherReason, got %v", result.Errors)
	}

	draft.Items[0].ReasonText = "sole came unglued"
	result = ValidateDraft(draft)
	if !result.OK() {
		t.Fatalf("expected valid draft with detail, got %v", result.Errors)
	}
}

func TestValidateDraftCollectsDistinctCategories(t *testing.T) {
	draft := completeDraft()
	draft.CustomerProfileData.Name = ""
	draft.CustomerProfileData.Phone = ""
	draft.PickupReturnData.Country = ""
	draft.Items[0].Condition = ""

	result := ValidateDraft(draft)
	if result.OK() {
		t.Fatalf("expected failure")
	}
	want := []ErrorCategory{CategoryReasonOrCondition, CategoryCustomerData, CategoryPickupData}
	for _, category := range want {
		if !hasCategory(result.Errors, category) {
			t.Fatalf("missing category %s in %v", category, result.Errors)
		}
	}
	// Two blank profile fields still report customer-data once.
	seen := 0
	for _, category := range result.Errors {
		if category == CategoryCustomerData {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected customer-data once, saw it %d times", seen)
	}
}

func TestValidateDraftMissingRefundSectionShortCircuits(t *testing.T) {
	draft := completeDraft()
	draft.RefundPaymentData = nil
	draft.PickupReturnData.AddressType = ""

	result := ValidateDraft(draft)
	if !hasCategory(result.Errors, CategoryRefundPaymentData) {
		t.Fatalf("expected refund-payment-data, got %v", result.Errors)
	}
	if result.Internal {
		t.Fatalf("missing refund section must report before the address type check")
	}
}

func TestValidateDraftBankDetails(t *testing.T) {
	draft := completeDraft()
	draft.RefundPaymentData = &RefundPaymentData{
		RefundPaymentMethod: PaymentMethodBank,
		IBAN:                "RO49AAAA1B31007593840000",
	}

	result := ValidateDraft(draft)
	if !hasCategory(result.Errors, CategoryBankDetails) {
		t.Fatalf("missing account holder must fail bank details, got %v", result.Errors)
	}

	draft.RefundPaymentData.AccountHolderName = "Ana Pop"
	result = ValidateDraft(draft)
	if !result.OK() {
		t.Fatalf("expected valid bank draft, got %v", result.Errors)
	}
}

func TestValidateDraftMissingAddressTypeIsInternal(t *testing.T) {
	draft := completeDraft()
	draft.PickupReturnData.AddressType = "  "

	result := ValidateDraft(draft)
	if !result.Internal {
		t.Fatalf("expected internal defect")
	}
	if result.OK() {
		t.Fatalf("internal result must not validate")
	}
}
