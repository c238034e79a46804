package returnflow

import (
	"errors"
	"testing"

	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
	returndomain "github.com/smallbiznis/returnly/internal/returnrequest/domain"
)

func editableDraft() returndomain.Draft {
	return returndomain.Draft{
		UserID:  "user-1",
		OrderID: "order-1",
		Items: []eligibilitydomain.EligibleItem{
			{SkuID: "sku-1", EligibleQuantity: 2},
		},
		CustomerProfileData: returndomain.CustomerProfileData{
			Name:  "Ana Pop",
			Email: "ana@example.com",
			Phone: "+40712345678",
		},
		PickupReturnData: returndomain.PickupReturnData{
			Country:     "Romania",
			Locality:    "Bucharest",
			Address:     "Strada Lunga 12",
			AddressType: "residential",
		},
		RefundPaymentData: &returndomain.RefundPaymentData{
			RefundPaymentMethod: returndomain.PaymentMethodVoucher,
		},
	}
}

func TestFlowStartsAtOrderSelection(t *testing.T) {
	flow := New()
	if flow.State() != StateSelectingOrder {
		t.Fatalf("expected selecting_order, got %s", flow.State())
	}
	if flow.Draft() != nil {
		t.Fatalf("no draft before an order is chosen")
	}
}

func TestFlowRejectsIllegalTransitions(t *testing.T) {
	flow := New()
	if err := flow.TransitionTo(StateSubmitted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if err := flow.TransitionTo(StateReviewingSummary); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFlowHappyPath(t *testing.T) {
	flow := New()
	draft := editableDraft()

	if err := flow.SelectOrder(draft); err != nil {
		t.Fatalf("select order: %v", err)
	}
	if flow.State() != StateEditingRequest {
		t.Fatalf("expected editing_request, got %s", flow.State())
	}

	flow.Draft().SetQuantity("sku-1", 1)
	flow.Draft().SetCondition("sku-1", "unopened")
	flow.Draft().SetReasonCode("sku-1", "wrongSize")

	result, err := flow.Review()
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected valid draft, got %v", result.Errors)
	}
	if flow.State() != StateReviewingSummary {
		t.Fatalf("expected reviewing_summary, got %s", flow.State())
	}

	if err := flow.RecordSubmission(nil); err != nil {
		t.Fatalf("record submission: %v", err)
	}
	if flow.State() != StateSubmitted {
		t.Fatalf("expected submitted, got %s", flow.State())
	}
}

func TestFlowValidationFailureStaysEditing(t *testing.T) {
	flow := New()
	if err := flow.SelectOrder(editableDraft()); err != nil {
		t.Fatalf("select order: %v", err)
	}

	result, err := flow.Review()
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if result.OK() {
		t.Fatalf("nothing selected, review should fail")
	}
	if flow.State() != StateEditingRequest {
		t.Fatalf("expected to stay editing, got %s", flow.State())
	}
	if len(flow.Notice()) == 0 {
		t.Fatalf("expected validation notice")
	}
}

func TestFlowTransitionClearsResidue(t *testing.T) {
	flow := New()
	if err := flow.SelectOrder(editableDraft()); err != nil {
		t.Fatalf("select order: %v", err)
	}
	if _, err := flow.Review(); err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(flow.Notice()) == 0 {
		t.Fatalf("expected notice after failed review")
	}

	if err := flow.TransitionTo(StateSelectingOrder); err != nil {
		t.Fatalf("back to selection: %v", err)
	}
	if len(flow.Notice()) != 0 || flow.Failed() {
		t.Fatalf("residue must not survive a step change")
	}
	if flow.Draft() != nil {
		t.Fatalf("draft must reset when returning to selection")
	}
}

func TestFlowFailedSubmissionKeepsSummary(t *testing.T) {
	flow := New()
	draft := editableDraft()
	draft.Items[0].SelectedQuantity = 1
	draft.Items[0].Condition = "unopened"
	draft.Items[0].ReasonCode = "wrongSize"

	if err := flow.SelectOrder(draft); err != nil {
		t.Fatalf("select order: %v", err)
	}
	if _, err := flow.Review(); err != nil {
		t.Fatalf("review: %v", err)
	}

	if err := flow.RecordSubmission(errors.New("gateway down")); err != nil {
		t.Fatalf("record failed submission: %v", err)
	}
	if flow.State() != StateReviewingSummary {
		t.Fatalf("failed submission must keep the summary, got %s", flow.State())
	}
	if !flow.Failed() {
		t.Fatalf("expected failure flag")
	}

	if err := flow.RecordSubmission(nil); err != nil {
		t.Fatalf("retry submission: %v", err)
	}
	if flow.State() != StateSubmitted {
		t.Fatalf("expected submitted after retry, got %s", flow.State())
	}
}
