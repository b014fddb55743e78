package phase

import (
	"encoding/json"
	"fmt"
)

// Status is the closed set of review states a phase instance can be in.
type Status string

const (
	StatusNotStarted     Status = "not_started"
	StatusInProgress     Status = "in_progress"
	StatusUnderReview    Status = "under_review"
	StatusRevisionNeeded Status = "revision_needed"
	StatusApproved       Status = "approved"
	// StatusCompleted is a terminal label equivalent to approved that the wider
	// dashboard writes into phase history. This core accepts it when reading
	// history but never produces it through a transition.
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Events accepted by the review state machine.
const (
	EventStart           = "start"
	EventSendToReview    = "send_to_review"
	EventApprove         = "approve"
	EventDecline         = "decline"
	EventRequestRevision = "request_revision"
)

// validTransitions defines the allowed state transitions and their events.
// Map: currentStatus -> event -> targetStatus
var validTransitions = map[Status]map[string]Status{
	StatusNotStarted: {
		EventStart: StatusInProgress,
	},
	StatusInProgress: {
		EventSendToReview: StatusUnderReview,
	},
	StatusRevisionNeeded: {
		EventSendToReview: StatusUnderReview,
	},
	StatusUnderReview: {
		EventApprove:         StatusApproved,
		EventDecline:         StatusFailed,
		EventRequestRevision: StatusRevisionNeeded,
	},
}

// AllStatuses returns all valid phase statuses.
func AllStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusInProgress,
		StatusUnderReview,
		StatusRevisionNeeded,
		StatusApproved,
		StatusCompleted,
		StatusFailed,
	}
}

// ParseStatus converts a raw status string from the backend into a Status.
// Unknown strings are rejected rather than defaulted; history written with a
// typo must surface as an error, never as a silent in_progress.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown phase status: %q", s)
	}
	return status, nil
}

// IsValid returns true if the status is a member of the closed enum.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusUnderReview,
		StatusRevisionNeeded, StatusApproved, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true once no further teacher action is exposed for the
// phase. Terminal phases still accept late revision responses and discussion.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsResolved reports whether the phase counts as completed for progress
// purposes. A failed phase is resolved, not open.
func (s Status) IsResolved() bool {
	return s.IsTerminal()
}

// CanTransitionWith returns true if the given event can trigger a transition
// from this status.
func (s Status) CanTransitionWith(event string) bool {
	transitions, ok := validTransitions[s]
	if !ok {
		return false
	}
	_, ok = transitions[event]
	return ok
}

// TransitionWith returns the target status for a given event, or a
// TransitionError if the (status, event) pair is not in the table.
func (s Status) TransitionWith(instanceID, event string) (Status, error) {
	transitions, ok := validTransitions[s]
	if !ok {
		return s, &TransitionError{InstanceID: instanceID, From: s, Event: event}
	}
	target, ok := transitions[event]
	if !ok {
		return s, &TransitionError{InstanceID: instanceID, From: s, Event: event}
	}
	return target, nil
}

// ValidEvents returns all events that can be triggered from this status.
func (s Status) ValidEvents() []string {
	transitions, ok := validTransitions[s]
	if !ok {
		return nil
	}
	events := make([]string, 0, len(transitions))
	for e := range transitions {
		events = append(events, e)
	}
	return events
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid phase status: %q", string(s))
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown statuses.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
