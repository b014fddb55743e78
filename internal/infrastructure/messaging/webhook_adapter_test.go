package messaging_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campushub/phasetrack/internal/domain/events"
	"github.com/campushub/phasetrack/internal/infrastructure/messaging"
)

func TestWebhookAdapter_Send_Success(t *testing.T) {
	var receivedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := messaging.NewWebhookAdapter(messaging.AdapterConfig{
		Name:    "test-webhook",
		Type:    "webhook",
		URL:     server.URL,
		Enabled: true,
	})

	event := events.New(events.TypePhaseApproved, "inst-1", "prof-lee")

	if err := adapter.Send(context.Background(), event); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(receivedBody) == 0 {
		t.Fatal("expected body to be sent")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload["event_type"] != events.TypePhaseApproved {
		t.Errorf("event_type = %v", payload["event_type"])
	}
	if _, ok := payload["timestamp"]; !ok {
		t.Error("expected 'timestamp' field in webhook payload")
	}
	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'data' object in webhook payload")
	}
	if data["instance_id"] != "inst-1" || data["actor"] != "prof-lee" {
		t.Errorf("data = %v", data)
	}
}

func TestWebhookAdapter_Send_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := messaging.NewWebhookAdapter(messaging.AdapterConfig{
		Name:    "test-webhook",
		Type:    "webhook",
		URL:     server.URL,
		Enabled: true,
	})

	err := adapter.Send(context.Background(), events.New(events.TypePhaseDeclined, "inst-1", "prof-lee"))
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	if err.Error() != "webhook returned status 500" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestWebhookAdapter_Send_FilteredEventSkipped(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := messaging.NewWebhookAdapter(messaging.AdapterConfig{
		Name:         "review-only",
		Type:         "webhook",
		URL:          server.URL,
		EventFilters: []string{events.TypePhaseApproved, events.TypePhaseDeclined},
		Enabled:      true,
	})

	if err := adapter.Send(context.Background(), events.New(events.TypeDiscussionPosted, "inst-1", "sam")); err != nil {
		t.Fatalf("filtered send must be a no-op, got %v", err)
	}
	if requests != 0 {
		t.Errorf("filtered event reached the server %d times", requests)
	}

	if err := adapter.Send(context.Background(), events.New(events.TypePhaseApproved, "inst-1", "prof-lee")); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("accepted event delivered %d times", requests)
	}
}

func TestWebhookAdapter_Send_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := messaging.NewWebhookAdapter(messaging.AdapterConfig{
		Name:    "test-webhook",
		Type:    "webhook",
		URL:     server.URL,
		Enabled: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := adapter.Send(ctx, events.New(events.TypePhaseStarted, "inst-1", "sam")); err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}
