package service

import (
	"context"
	"errors"
	"testing"

	orderdomain "github.com/smallbiznis/returnly/internal/order/domain"
	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func TestEvaluateRemainingQuantity(t *testing.T) {
	item := orderdomain.OrderItem{SkuID: "sku-1", Quantity: 5}

	outcome := Evaluate(item, nil, 2)
	if !outcome.Eligible {
		t.Fatalf("expected eligible, got %+v", outcome)
	}
	if outcome.EligibleQuantity != 3 {
		t.Fatalf("expected eligible quantity 3, got %d", outcome.EligibleQuantity)
	}
}

func TestEvaluateFullyClaimed(t *testing.T) {
	item := orderdomain.OrderItem{SkuID: "sku-1", Quantity: 3}

	outcome := Evaluate(item, nil, 3)
	if outcome.Eligible {
		t.Fatalf("expected ineligible, got %+v", outcome)
	}
	if outcome.OverClaimed {
		t.Fatalf("exact claim should not flag over-claim")
	}
}

func TestEvaluateOverClaimed(t *testing.T) {
	item := orderdomain.OrderItem{SkuID: "sku-1", Quantity: 3}

	outcome := Evaluate(item, nil, 5)
	if outcome.Eligible {
		t.Fatalf("expected ineligible, got %+v", outcome)
	}
	if outcome.EligibleQuantity != 0 {
		t.Fatalf("expected eligible quantity 0, got %d", outcome.EligibleQuantity)
	}
	if !outcome.OverClaimed {
		t.Fatalf("expected over-claim flag")
	}
}

func TestEvaluateExcludedCategory(t *testing.T) {
	item := orderdomain.OrderItem{
		SkuID:      "sku-1",
		Quantity:   2,
		Categories: datatypes.JSON(`[{"id":"cat-9"},{"id":"cat-2"}]`),
	}
	exclusions := []settingsdomain.ExcludedCategory{{ID: "cat-2"}}

	outcome := Evaluate(item, exclusions, 0)
	if outcome.Eligible {
		t.Fatalf("excluded category should disqualify the item")
	}
	if outcome.EligibleQuantity != 0 {
		t.Fatalf("expected eligible quantity 0, got %d", outcome.EligibleQuantity)
	}
}

func TestEvaluateEmptyExclusionList(t *testing.T) {
	item := orderdomain.OrderItem{
		SkuID:      "sku-1",
		Quantity:   2,
		Categories: datatypes.JSON(`[{"id":"cat-2"}]`),
	}

	outcome := Evaluate(item, nil, 0)
	if !outcome.Eligible {
		t.Fatalf("no exclusions configured, item should stay eligible")
	}
	if outcome.EligibleQuantity != 2 {
		t.Fatalf("expected eligible quantity 2, got %d", outcome.EligibleQuantity)
	}
}

func TestEvaluateMalformedCategories(t *testing.T) {
	item := orderdomain.OrderItem{
		SkuID:      "sku-1",
		Quantity:   1,
		Categories: datatypes.JSON(`not-json`),
	}
	exclusions := []settingsdomain.ExcludedCategory{{ID: "cat-2"}}

	outcome := Evaluate(item, exclusions, 0)
	if !outcome.Eligible {
		t.Fatalf("malformed categories should read as no categories")
	}
}

type fakeRecordStore struct {
	claimed map[string]int
	err     error
}

func (f *fakeRecordStore) SumClaimedQuantity(_ context.Context, _, _, skuID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.claimed[skuID], nil
}

func TestEvaluateItemUsesClaimedQuantity(t *testing.T) {
	evaluator := &Evaluator{
		log:     zap.NewNop(),
		records: &fakeRecordStore{claimed: map[string]int{"sku-1": 4}},
	}
	item := orderdomain.OrderItem{SkuID: "sku-1", Quantity: 5}

	outcome, err := evaluator.EvaluateItem(context.Background(), "user-1", "order-1", item, nil)
	if err != nil {
		t.Fatalf("evaluate item: %v", err)
	}
	if !outcome.Eligible || outcome.EligibleQuantity != 1 {
		t.Fatalf("expected eligible quantity 1, got %+v", outcome)
	}
}

func TestEvaluateItemLookupFailure(t *testing.T) {
	lookupErr := errors.New("store offline")
	evaluator := &Evaluator{
		log:     zap.NewNop(),
		records: &fakeRecordStore{err: lookupErr},
	}
	item := orderdomain.OrderItem{SkuID: "sku-1", Quantity: 5}

	_, err := evaluator.EvaluateItem(context.Background(), "user-1", "order-1", item, nil)
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
