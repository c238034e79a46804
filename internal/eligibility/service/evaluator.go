// Package service implements eligibility evaluation and order aggregation.
package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/returnly/internal/eligibility/domain"
	orderdomain "github.com/smallbiznis/returnly/internal/order/domain"
	returnrequestdomain "github.com/smallbiznis/returnly/internal/returnrequest/domain"
	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Evaluate computes the remaining eligible quantity for a single item. When
// any exclusion is configured, an item matching any excluded category id is
// disqualified outright; an empty exclusion list leaves every item eligible
// regardless of its categories.
func Evaluate(item orderdomain.OrderItem, exclusions []settingsdomain.ExcludedCategory, alreadyClaimed int) domain.Outcome {
	if len(exclusions) > 0 {
		for _, category := range item.CategoryList() {
			for _, excluded := range exclusions {
				if category.ID == excluded.ID {
					return domain.Outcome{}
				}
			}
		}
	}

	remaining := item.Quantity - alreadyClaimed
	if remaining <= 0 {
		return domain.Outcome{OverClaimed: alreadyClaimed > item.Quantity}
	}
	return domain.Outcome{Eligible: true, EligibleQuantity: remaining}
}

type EvaluatorParam struct {
	fx.In

	Log     *zap.Logger
	Records returnrequestdomain.RecordStore
}

// Evaluator resolves claimed quantities and evaluates items against settings.
type Evaluator struct {
	log     *zap.Logger
	records returnrequestdomain.RecordStore
}

func NewEvaluator(p EvaluatorParam) *Evaluator {
	return &Evaluator{
		log:     p.Log.Named("eligibility.evaluator"),
		records: p.Records,
	}
}

// EvaluateItem looks up the quantity already claimed for the item and
// evaluates it. A failed lookup is returned as an error, never as
// "zero claimed".
func (e *Evaluator) EvaluateItem(
	ctx context.Context,
	userID, orderID string,
	item orderdomain.OrderItem,
	exclusions []settingsdomain.ExcludedCategory,
) (domain.Outcome, error) {
	claimed, err := e.records.SumClaimedQuantity(ctx, userID, orderID, item.SkuID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("sum claimed quantity: %w", err)
	}

	outcome := Evaluate(item, exclusions, claimed)
	if outcome.OverClaimed {
		e.log.Warn("claimed quantity exceeds ordered quantity",
			zap.String("user_id", userID),
			zap.String("order_id", orderID),
			zap.String("sku_id", item.SkuID),
			zap.Int("ordered", item.Quantity),
			zap.Int("claimed", claimed),
		)
	}
	return outcome, nil
}
