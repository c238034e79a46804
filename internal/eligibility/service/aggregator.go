package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallbiznis/returnly/internal/clock"
	"github.com/smallbiznis/returnly/internal/eligibility/domain"
	"github.com/smallbiznis/returnly/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/returnly/internal/order/domain"
	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type AggregatorParam struct {
	fx.In

	Log       *zap.Logger
	Orders    orderdomain.Store
	Profiles  orderdomain.ProfileStore
	Settings  settingsdomain.Service
	Evaluator *Evaluator
	Clock     clock.Clock
	Metrics   *metrics.ReturnsMetrics `optional:"true"`
}

// Aggregator computes the set of orders a customer may request returns for.
type Aggregator struct {
	log       *zap.Logger
	orders    orderdomain.Store
	profiles  orderdomain.ProfileStore
	settings  settingsdomain.Service
	evaluator *Evaluator
	clock     clock.Clock
	metrics   *metrics.ReturnsMetrics
}

func NewAggregator(p AggregatorParam) domain.Service {
	return &Aggregator{
		log:       p.Log.Named("eligibility.aggregator"),
		orders:    p.Orders,
		profiles:  p.Profiles,
		settings:  p.Settings,
		evaluator: p.Evaluator,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

// Aggregate fans the evaluator out over every item of every order inside the
// configured recency window. Each call recomputes from current state; a
// unit-level fetch failure excludes its order and is recorded, never silently
// swallowed. The result keeps the recency order of the order listing.
func (a *Aggregator) Aggregate(ctx context.Context, customerEmail string) (*domain.AggregationResult, error) {
	start := time.Now()

	settings, err := a.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsdomain.ErrNotConfigured) {
			a.observeAggregation("error", start)
			return nil, domain.ErrSettingsNotConfigured
		}
		a.observeAggregation("error", start)
		return nil, err
	}

	profile, err := a.profiles.GetByEmail(ctx, customerEmail)
	if err != nil {
		if errors.Is(err, orderdomain.ErrProfileNotFound) {
			a.observeAggregation("error", start)
			return nil, domain.ErrProfileUnavailable
		}
		a.observeAggregation("error", start)
		return nil, err
	}

	summaries, err := a.orders.ListInvoiced(ctx, profile.Email)
	if err != nil {
		a.observeAggregation("error", start)
		return nil, err
	}

	exclusions := settings.Exclusions()
	now := a.clock.Now()

	kept := make([]orderdomain.OrderSummary, 0, len(summaries))
	for _, summary := range summaries {
		if daysBetween(summary.CreationDate, now) <= settings.MaxDays {
			kept = append(kept, summary)
		}
	}

	// One slot per kept order so completion order cannot scramble recency
	// order; slots stay nil for ineligible or failed orders.
	slots := make([]*domain.EligibleOrder, len(kept))

	var mu sync.Mutex
	var failures []domain.Failure

	var wg sync.WaitGroup
	for idx, summary := range kept {
		wg.Add(1)
		go func(idx int, summary orderdomain.OrderSummary) {
			defer wg.Done()

			order, err := a.orders.GetDetail(ctx, summary.OrderID, profile.Email)
			if err != nil {
				mu.Lock()
				failures = append(failures, domain.Failure{OrderID: summary.OrderID, Reason: err.Error()})
				mu.Unlock()
				a.observePartialFailure()
				return
			}

			items, itemFailures := a.evaluateOrder(ctx, profile.UserID, order, exclusions)
			if len(itemFailures) > 0 {
				mu.Lock()
				failures = append(failures, itemFailures...)
				mu.Unlock()
				// Any unresolved item makes the order's eligibility unknowable;
				// exclude it rather than fabricate a zero claim.
				return
			}
			if len(items) == 0 {
				return
			}
			slots[idx] = &domain.EligibleOrder{Order: *order, Items: items}
		}(idx, summary)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		a.observeAggregation("error", start)
		return nil, err
	}

	orders := make([]domain.EligibleOrder, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			orders = append(orders, *slot)
		}
	}

	result := &domain.AggregationResult{
		Orders:   orders,
		Partial:  len(failures) > 0,
		Failures: failures,
	}
	if result.Partial {
		a.log.Warn("aggregation completed with failures",
			zap.String("user_id", profile.UserID),
			zap.Int("failed_units", len(failures)),
		)
		a.observeAggregation("partial", start)
	} else {
		a.observeAggregation("ok", start)
	}
	return result, nil
}

// evaluateOrder runs the evaluator over every item of one order concurrently
// and waits for all of them before deciding.
func (a *Aggregator) evaluateOrder(
	ctx context.Context,
	userID string,
	order *orderdomain.Order,
	exclusions []settingsdomain.ExcludedCategory,
) ([]domain.EligibleItem, []domain.Failure) {
	slots := make([]*domain.EligibleItem, len(order.Items))

	var mu sync.Mutex
	var failures []domain.Failure

	var wg sync.WaitGroup
	for idx, item := range order.Items {
		wg.Add(1)
		go func(idx int, item orderdomain.OrderItem) {
			defer wg.Done()

			outcome, err := a.evaluator.EvaluateItem(ctx, userID, order.OrderID, item, exclusions)
			if err != nil {
				mu.Lock()
				failures = append(failures, domain.Failure{
					OrderID: order.OrderID,
					SkuID:   item.SkuID,
					Reason:  err.Error(),
				})
				mu.Unlock()
				a.observeEvaluation("error")
				a.observePartialFailure()
				return
			}
			if !outcome.Eligible {
				a.observeEvaluation("ineligible")
				return
			}
			a.observeEvaluation("eligible")
			slots[idx] = &domain.EligibleItem{
				SkuID:            item.SkuID,
				Name:             item.Name,
				ImageURL:         item.ImageURL,
				UnitPrice:        item.UnitPrice,
				OrderedQuantity:  item.Quantity,
				EligibleQuantity: outcome.EligibleQuantity,
			}
		}(idx, item)
	}
	wg.Wait()

	items := make([]domain.EligibleItem, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			items = append(items, *slot)
		}
	}
	return items, failures
}

// daysBetween counts whole days from creation to now, inclusive comparison
// semantics matching the storefront's recency window.
func daysBetween(creation, now time.Time) int {
	if now.Before(creation) {
		return 0
	}
	return int(now.Sub(creation).Hours() / 24)
}

func (a *Aggregator) observeAggregation(result string, start time.Time) {
	if a.metrics != nil {
		a.metrics.ObserveAggregation(result, time.Since(start))
	}
}

func (a *Aggregator) observeEvaluation(result string) {
	if a.metrics != nil {
		a.metrics.ObserveEvaluation(result)
	}
}

func (a *Aggregator) observePartialFailure() {
	if a.metrics != nil {
		a.metrics.ObservePartialFailure()
	}
}
