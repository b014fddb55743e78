package phase_test

import (
	"errors"
	"testing"

	"github.com/campushub/phasetrack/internal/domain/phase"
)

func TestReviewStateMachine_LegalPath(t *testing.T) {
	steps := []struct {
		from  phase.Status
		event string
		to    phase.Status
	}{
		{phase.StatusNotStarted, phase.EventStart, phase.StatusInProgress},
		{phase.StatusInProgress, phase.EventSendToReview, phase.StatusUnderReview},
		{phase.StatusUnderReview, phase.EventRequestRevision, phase.StatusRevisionNeeded},
		{phase.StatusRevisionNeeded, phase.EventSendToReview, phase.StatusUnderReview},
		{phase.StatusUnderReview, phase.EventApprove, phase.StatusApproved},
	}

	for _, step := range steps {
		sm, err := phase.NewReviewStateMachine(step.from, "inst-1", nil)
		if err != nil {
			t.Fatalf("build machine at %s: %v", step.from, err)
		}
		got, err := sm.Transition(step.event)
		if err != nil {
			t.Fatalf("%s + %s: %v", step.from, step.event, err)
		}
		if got != step.to {
			t.Errorf("%s + %s: got %s, want %s", step.from, step.event, got, step.to)
		}
	}
}

func TestReviewStateMachine_Decline(t *testing.T) {
	sm, err := phase.NewReviewStateMachine(phase.StatusUnderReview, "inst-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := sm.Transition(phase.EventDecline)
	if err != nil {
		t.Fatal(err)
	}
	if got != phase.StatusFailed {
		t.Errorf("got %s, want failed", got)
	}
}

func TestReviewStateMachine_RejectsIllegalEvent(t *testing.T) {
	sm, err := phase.NewReviewStateMachine(phase.StatusApproved, "inst-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := sm.Transition(phase.EventSendToReview)
	if !errors.Is(err, phase.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if got != phase.StatusApproved {
		t.Errorf("state moved on rejection: %s", got)
	}
	if sm.Current() != phase.StatusApproved {
		t.Errorf("machine state moved on rejection: %s", sm.Current())
	}
}

func TestReviewStateMachine_GuardBlocks(t *testing.T) {
	denied := func(string, string) bool { return false }
	sm, err := phase.NewReviewStateMachine(phase.StatusUnderReview, "inst-1", denied)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Transition(phase.EventApprove); !errors.Is(err, phase.ErrIllegalTransition) {
		t.Fatalf("expected guard rejection, got %v", err)
	}
	if sm.Current() != phase.StatusUnderReview {
		t.Errorf("guard rejection moved state: %s", sm.Current())
	}
}

func TestReviewStateMachine_GuardReceivesEvent(t *testing.T) {
	var seen []string
	guard := func(id, event string) bool {
		seen = append(seen, id+"/"+event)
		return true
	}
	sm, err := phase.NewReviewStateMachine(phase.StatusUnderReview, "inst-7", guard)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Transition(phase.EventRequestRevision); err != nil {
		t.Fatal(err)
	}
	if len(seen) == 0 || seen[0] != "inst-7/"+phase.EventRequestRevision {
		t.Errorf("guard calls: %v", seen)
	}
}

func TestReviewStateMachine_InvalidInitialStatus(t *testing.T) {
	if _, err := phase.NewReviewStateMachine(phase.Status("bogus"), "inst-1", nil); err == nil {
		t.Error("expected error for invalid initial status")
	}
}
