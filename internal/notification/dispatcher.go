// Package notification delivers customer-facing confirmations for submitted
// return requests. Delivery is best effort; the durable record lives in the
// event outbox.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smallbiznis/returnly/internal/config"
	"github.com/smallbiznis/returnly/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Snapshot carries everything a confirmation message needs. It is captured at
// submission time so later edits to the request cannot change the message.
type Snapshot struct {
	RequestID  string `json:"request_id"`
	OrderID    string `json:"order_id"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"total_price"`
	ItemCount  int    `json:"item_count"`
}

// Dispatcher sends a confirmation to the customer.
type Dispatcher interface {
	Send(ctx context.Context, snap Snapshot) error
}

type DispatcherParam struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// NewDispatcher returns a webhook dispatcher when a webhook URL is configured,
// otherwise a dispatcher that only logs the delivery intent.
func NewDispatcher(p DispatcherParam) Dispatcher {
	log := p.Log.Named("notification.dispatcher")
	if p.Cfg.NotificationWebhookURL == "" {
		return &logDispatcher{log: log}
	}
	return &webhookDispatcher{
		url: p.Cfg.NotificationWebhookURL,
		client: tracing.WrapHTTPClient(&http.Client{
			Timeout: 10 * time.Second,
		}),
		log: log,
	}
}

type logDispatcher struct {
	log *zap.Logger
}

func (d *logDispatcher) Send(_ context.Context, snap Snapshot) error {
	d.log.Info("confirmation recorded",
		zap.String("request_id", snap.RequestID),
		zap.String("order_id", snap.OrderID),
		zap.String("status", snap.Status),
	)
	return nil
}

type webhookDispatcher struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func (d *webhookDispatcher) Send(ctx context.Context, snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	d.log.Info("confirmation delivered",
		zap.String("request_id", snap.RequestID),
		zap.Int("status_code", resp.StatusCode),
	)
	return nil
}

var Module = fx.Module("notification",
	fx.Provide(NewDispatcher),
)
