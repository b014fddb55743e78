package phase

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// ReviewContext carries state machine data.
type ReviewContext struct {
	InstanceID string
	Guard      func(instanceID string, event string) bool
}

// ReviewStateMachine drives the review workflow for one phase instance. The
// transition table in status.go is the authoritative contract; the machine
// layers policy guards (role, revision-cycle preconditions) on top of it.
type ReviewStateMachine struct {
	interpreter *statekit.Interpreter[ReviewContext]
	instanceID  string
}

// NewReviewStateMachine builds a machine positioned at the instance's current
// status. The guard is consulted before every guarded transition; a nil guard
// allows everything.
func NewReviewStateMachine(current Status, instanceID string, guard func(string, string) bool) (*ReviewStateMachine, error) {
	if !current.IsValid() {
		return nil, fmt.Errorf("cannot build review machine from status %q", string(current))
	}
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[ReviewContext]("phase-review").
		WithInitial(statekit.StateID(current)).
		WithContext(ReviewContext{
			InstanceID: instanceID,
			Guard:      guard,
		}).
		WithGuard("policyGuard", func(ctx ReviewContext, e statekit.Event) bool {
			return ctx.Guard(ctx.InstanceID, string(e.Type))
		})

	builder.State(statekit.StateID(StatusNotStarted)).
		On(EventStart).Target(statekit.StateID(StatusInProgress)).Guard("policyGuard").
		Done()

	builder.State(statekit.StateID(StatusInProgress)).
		On(EventSendToReview).Target(statekit.StateID(StatusUnderReview)).Guard("policyGuard").
		Done()

	builder.State(statekit.StateID(StatusRevisionNeeded)).
		On(EventSendToReview).Target(statekit.StateID(StatusUnderReview)).Guard("policyGuard").
		Done()

	builder.State(statekit.StateID(StatusUnderReview)).
		On(EventApprove).Target(statekit.StateID(StatusApproved)).Guard("policyGuard").
		On(EventDecline).Target(statekit.StateID(StatusFailed)).Guard("policyGuard").
		On(EventRequestRevision).Target(statekit.StateID(StatusRevisionNeeded)).Guard("policyGuard").
		Done()

	// Terminal states: no outgoing review events.
	builder.State(statekit.StateID(StatusApproved)).Done()
	builder.State(statekit.StateID(StatusCompleted)).Done()
	builder.State(statekit.StateID(StatusFailed)).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build review state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ReviewStateMachine{interpreter: interpreter, instanceID: instanceID}, nil
}

// Transition attempts to apply an event. On rejection (no matching transition
// or guard refusal) the state is unchanged and a TransitionError is returned
// naming the state the instance is actually in.
func (sm *ReviewStateMachine) Transition(event string) (Status, error) {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before == after {
		return before, &TransitionError{InstanceID: sm.instanceID, From: before, Event: event}
	}
	return after, nil
}

// Current returns the machine's current status.
func (sm *ReviewStateMachine) Current() Status {
	return Status(sm.interpreter.State().Value)
}
