package scheduler

import (
	"context"
	"testing"

	"github.com/smallbiznis/returnly/internal/events"
	"github.com/smallbiznis/returnly/internal/notification"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type captureDispatcher struct {
	sent []notification.Snapshot
	err  error
}

func (d *captureDispatcher) Send(_ context.Context, snap notification.Snapshot) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, snap)
	return nil
}

func TestDeliverMapsCreatedPayload(t *testing.T) {
	dispatcher := &captureDispatcher{}
	relay := &Relay{log: zap.NewNop(), dispatcher: dispatcher}

	event := WorkEvent{
		ID:        1,
		UserID:    "user-1",
		EventType: events.EventReturnRequestCreated,
		Payload: datatypes.JSON(`{
			"request_id": "77",
			"order_id": "order-1",
			"user_id": "user-1",
			"email": "ana@example.com",
			"status": "new",
			"total_price": 3900,
			"item_count": 2
		}`),
	}
	if err := relay.deliver(context.Background(), event); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(dispatcher.sent))
	}
	snap := dispatcher.sent[0]
	if snap.RequestID != "77" || snap.OrderID != "order-1" || snap.TotalPrice != 3900 || snap.ItemCount != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestDeliverMapsStatusChangedPayload(t *testing.T) {
	dispatcher := &captureDispatcher{}
	relay := &Relay{log: zap.NewNop(), dispatcher: dispatcher}

	event := WorkEvent{
		ID:        4,
		UserID:    "user-1",
		EventType: events.EventReturnStatusChanged,
		Payload: datatypes.JSON(`{
			"request_id": "77",
			"order_id": "order-1",
			"user_id": "user-1",
			"email": "ana@example.com",
			"from_status": "new",
			"to_status": "approved"
		}`),
	}
	if err := relay.deliver(context.Background(), event); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(dispatcher.sent))
	}
	if snap := dispatcher.sent[0]; snap.Status != "approved" || snap.Email != "ana@example.com" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestDeliverMalformedPayload(t *testing.T) {
	relay := &Relay{log: zap.NewNop(), dispatcher: &captureDispatcher{}}

	event := WorkEvent{
		ID:        2,
		EventType: events.EventReturnRequestCreated,
		Payload:   datatypes.JSON(`{`),
	}
	if err := relay.deliver(context.Background(), event); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestDeliverAcksUnknownEventType(t *testing.T) {
	dispatcher := &captureDispatcher{}
	relay := &Relay{log: zap.NewNop(), dispatcher: dispatcher}

	event := WorkEvent{ID: 3, EventType: "return_request_archived"}
	if err := relay.deliver(context.Background(), event); err != nil {
		t.Fatalf("unknown event type must be acked, got %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatalf("unknown event must not dispatch, sent %d", len(dispatcher.sent))
	}
}
