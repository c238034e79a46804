package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smallbiznis/returnly/internal/config"
	"go.uber.org/zap"
)

func TestNewDispatcherDefaultsToLogging(t *testing.T) {
	d := NewDispatcher(DispatcherParam{Cfg: config.Config{}, Log: zap.NewNop()})
	if _, ok := d.(*logDispatcher); !ok {
		t.Fatalf("expected log dispatcher, got %T", d)
	}
	if err := d.Send(context.Background(), Snapshot{RequestID: "1"}); err != nil {
		t.Fatalf("log dispatch: %v", err)
	}
}

func TestWebhookDispatcherPostsSnapshot(t *testing.T) {
	var received Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(DispatcherParam{
		Cfg: config.Config{NotificationWebhookURL: srv.URL},
		Log: zap.NewNop(),
	})
	snap := Snapshot{
		RequestID:  "77",
		OrderID:    "order-1",
		Email:      "ana@example.com",
		Status:     "new",
		TotalPrice: 3900,
		ItemCount:  2,
	}
	if err := d.Send(context.Background(), snap); err != nil {
		t.Fatalf("send: %v", err)
	}
	if received != snap {
		t.Fatalf("expected %+v delivered, got %+v", snap, received)
	}
}

func TestWebhookDispatcherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(DispatcherParam{
		Cfg: config.Config{NotificationWebhookURL: srv.URL},
		Log: zap.NewNop(),
	})
	if err := d.Send(context.Background(), Snapshot{RequestID: "77"}); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
