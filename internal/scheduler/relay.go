// Package scheduler runs the outbox relay that delivers return lifecycle
// events to the notification channel.
package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/returnly/internal/events"
	"github.com/smallbiznis/returnly/internal/notification"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = 50
)

// WorkEvent is one unpublished outbox row claimed for delivery.
type WorkEvent struct {
	ID        snowflake.ID   `gorm:"column:id"`
	UserID    string         `gorm:"column:user_id"`
	EventType string         `gorm:"column:event_type"`
	Payload   datatypes.JSON `gorm:"column:payload"`
}

type RelayParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Dispatcher notification.Dispatcher
}

// Relay drains the return_events outbox. Rows are claimed with
// FOR UPDATE SKIP LOCKED so concurrent replicas never deliver the same event,
// and a failed delivery leaves the row unpublished for the next sweep.
type Relay struct {
	db         *gorm.DB
	log        *zap.Logger
	dispatcher notification.Dispatcher
	interval   time.Duration
	batchSize  int
	done       chan struct{}
}

func NewRelay(p RelayParam) *Relay {
	return &Relay{
		db:         p.DB,
		log:        p.Log.Named("scheduler.relay"),
		dispatcher: p.Dispatcher,
		interval:   defaultInterval,
		batchSize:  defaultBatchSize,
		done:       make(chan struct{}),
	}
}

// Run sweeps the outbox on a fixed interval until the context is canceled.
func (r *Relay) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			delivered, err := r.RunOnce(ctx)
			if err != nil {
				r.log.Error("outbox sweep failed", zap.Error(err))
				continue
			}
			if delivered > 0 {
				r.log.Info("outbox sweep delivered events", zap.Int("count", delivered))
			}
		}
	}
}

// RunOnce claims one batch of unpublished events and delivers them.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	delivered := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		work, err := r.fetchEventsForWork(ctx, tx, r.batchSize)
		if err != nil {
			return err
		}
		for _, event := range work {
			if err := r.deliver(ctx, event); err != nil {
				r.log.Warn("event delivery failed",
					zap.String("event_id", event.ID.String()),
					zap.String("event_type", event.EventType),
					zap.Error(err),
				)
				continue
			}
			if err := tx.WithContext(ctx).Exec(
				`UPDATE return_events SET published = true WHERE id = ?`,
				event.ID,
			).Error; err != nil {
				return err
			}
			delivered++
		}
		return nil
	})
	return delivered, err
}

func (r *Relay) fetchEventsForWork(ctx context.Context, tx *gorm.DB, limit int) ([]WorkEvent, error) {
	if limit <= 0 {
		limit = defaultBatchSize
	}
	var work []WorkEvent
	err := tx.WithContext(ctx).Raw(
		`SELECT id, user_id, event_type, payload
		 FROM return_events
		 WHERE published = false
		 ORDER BY id
		 FOR UPDATE SKIP LOCKED
		 LIMIT ?`,
		limit,
	).Scan(&work).Error
	if err != nil {
		return nil, err
	}
	return work, nil
}

func (r *Relay) deliver(ctx context.Context, event WorkEvent) error {
	switch event.EventType {
	case events.EventReturnRequestCreated:
		var payload events.ReturnRequestCreatedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		return r.dispatcher.Send(ctx, notification.Snapshot{
			RequestID:  payload.RequestID,
			OrderID:    payload.OrderID,
			Email:      payload.Email,
			Status:     payload.Status,
			TotalPrice: payload.TotalPrice,
			ItemCount:  payload.ItemCount,
		})
	case events.EventReturnStatusChanged:
		var payload events.ReturnStatusChangedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		return r.dispatcher.Send(ctx, notification.Snapshot{
			RequestID: payload.RequestID,
			OrderID:   payload.OrderID,
			Email:     payload.Email,
			Status:    payload.ToStatus,
		})
	default:
		// Unknown types are acknowledged so one bad row cannot wedge the
		// sweep.
		r.log.Warn("skipping unknown event type",
			zap.String("event_id", event.ID.String()),
			zap.String("event_type", event.EventType),
		)
		return nil
	}
}

// RunRelay ties the relay loop to the fx lifecycle.
func RunRelay(lc fx.Lifecycle, relay *Relay) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go relay.Run(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-relay.done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

var Module = fx.Module("scheduler",
	fx.Provide(NewRelay),
	fx.Invoke(RunRelay),
)
