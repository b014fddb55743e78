package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/campushub/phasetrack/internal/domain/events"
)

func TestDeadLetterStore_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletters.jsonl")
	store := NewDeadLetterStore(path)

	dl := DeadLetter{
		Adapter:    "dept-slack",
		Event:      events.New(events.TypePhaseApproved, "inst-1", "prof-lee"),
		Error:      "connection refused",
		RecordedAt: time.Now().UTC(),
	}

	if err := store.Append(dl); err != nil {
		t.Fatal(err)
	}

	entries, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Adapter != "dept-slack" {
		t.Errorf("adapter = %s", entries[0].Adapter)
	}
	if entries[0].Event == nil || entries[0].Event.InstanceID != "inst-1" {
		t.Errorf("event = %+v", entries[0].Event)
	}
}

func TestDeadLetterStore_ReadAll_MissingFile(t *testing.T) {
	store := NewDeadLetterStore(filepath.Join(t.TempDir(), "nonexistent.jsonl"))

	entries, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if entries != nil {
		t.Errorf("expected nil entries for missing file, got %v", entries)
	}
}

func TestRegistry_FailedDeliveryRecorded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	registry, err := NewRegistry([]AdapterConfig{
		{Name: "flaky", Type: "webhook", URL: server.URL, Enabled: true},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	store := NewDeadLetterStore(filepath.Join(t.TempDir(), "deadletters.jsonl"))
	registry.WithDeadLetter(store)

	errs := registry.Broadcast(context.Background(), events.New(events.TypePhaseDeclined, "inst-2", "prof-lee"))
	if len(errs) != 1 {
		t.Fatalf("expected 1 delivery error, got %d", len(errs))
	}

	entries, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Adapter != "flaky" {
		t.Fatalf("entries = %+v", entries)
	}
}
