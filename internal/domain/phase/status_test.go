package phase_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/campushub/phasetrack/internal/domain/phase"
)

func TestStatus_TransitionTable(t *testing.T) {
	legal := map[phase.Status]map[string]phase.Status{
		phase.StatusNotStarted:     {phase.EventStart: phase.StatusInProgress},
		phase.StatusInProgress:     {phase.EventSendToReview: phase.StatusUnderReview},
		phase.StatusRevisionNeeded: {phase.EventSendToReview: phase.StatusUnderReview},
		phase.StatusUnderReview: {
			phase.EventApprove:         phase.StatusApproved,
			phase.EventDecline:         phase.StatusFailed,
			phase.EventRequestRevision: phase.StatusRevisionNeeded,
		},
	}
	allEvents := []string{
		phase.EventStart, phase.EventSendToReview, phase.EventApprove,
		phase.EventDecline, phase.EventRequestRevision,
	}

	for _, from := range phase.AllStatuses() {
		for _, event := range allEvents {
			want, ok := legal[from][event]
			got, err := from.TransitionWith("inst-1", event)

			if ok {
				if err != nil {
					t.Errorf("%s + %s: unexpected error %v", from, event, err)
				}
				if got != want {
					t.Errorf("%s + %s: got %s, want %s", from, event, got, want)
				}
				continue
			}

			if err == nil {
				t.Errorf("%s + %s: expected rejection", from, event)
				continue
			}
			if !errors.Is(err, phase.ErrIllegalTransition) {
				t.Errorf("%s + %s: error does not match ErrIllegalTransition: %v", from, event, err)
			}
			if got != from {
				t.Errorf("%s + %s: status changed on rejection: %s", from, event, got)
			}
		}
	}
}

func TestStatus_TransitionErrorNamesCurrentState(t *testing.T) {
	_, err := phase.StatusApproved.TransitionWith("inst-9", phase.EventSendToReview)
	var transErr *phase.TransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if transErr.From != phase.StatusApproved || transErr.InstanceID != "inst-9" {
		t.Errorf("error does not carry actual state: %+v", transErr)
	}
}

func TestParseStatus_RejectsUnknown(t *testing.T) {
	// Typos and drift variants observed in dashboard history must fail fast,
	// never default to in_progress.
	for _, raw := range []string{"revision nedded", "Revision Needed", "IN_PROGRESS", "done", ""} {
		if _, err := phase.ParseStatus(raw); err == nil {
			t.Errorf("ParseStatus(%q): expected error", raw)
		}
	}
}

func TestParseStatus_AcceptsEnum(t *testing.T) {
	for _, s := range phase.AllStatuses() {
		got, err := phase.ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}
}

func TestStatus_JSONRejectsUnknown(t *testing.T) {
	var s phase.Status
	if err := json.Unmarshal([]byte(`"revision nedded"`), &s); err == nil {
		t.Error("expected unmarshal of unknown status to fail")
	}
	if err := json.Unmarshal([]byte(`"under_review"`), &s); err != nil {
		t.Fatalf("unmarshal valid status: %v", err)
	}
	if s != phase.StatusUnderReview {
		t.Errorf("got %s", s)
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := map[phase.Status]bool{
		phase.StatusApproved:  true,
		phase.StatusCompleted: true,
		phase.StatusFailed:    true,
	}
	for _, s := range phase.AllStatuses() {
		if s.IsTerminal() != terminal[s] {
			t.Errorf("%s: IsTerminal = %v", s, s.IsTerminal())
		}
		if s.IsResolved() != terminal[s] {
			t.Errorf("%s: IsResolved = %v", s, s.IsResolved())
		}
	}
}

func TestStatus_ValidEvents(t *testing.T) {
	events := phase.StatusUnderReview.ValidEvents()
	if len(events) != 3 {
		t.Errorf("under_review should expose 3 events, got %v", events)
	}
	if phase.StatusApproved.ValidEvents() != nil {
		t.Error("approved should expose no events")
	}
}
