package phase

import (
	"errors"
	"fmt"
)

// Domain errors for the phase review workflow.
var (
	// ErrIllegalTransition indicates the requested event is not allowed from
	// the instance's current status.
	ErrIllegalTransition = errors.New("illegal phase transition")

	// ErrInstanceExists indicates a phase instance already exists for the
	// (template, project) pair.
	ErrInstanceExists = errors.New("phase instance already exists")

	// ErrInstanceNotFound indicates no phase instance exists for the
	// (template, project) pair.
	ErrInstanceNotFound = errors.New("phase instance not found")

	// ErrPartialCommit indicates a revision request was created but the
	// matching status record was not appended.
	ErrPartialCommit = errors.New("revision request created but status not appended")

	// ErrReviewNotExercised indicates approve/decline was attempted before any
	// revision request was recorded for the current review cycle.
	ErrReviewNotExercised = errors.New("review cycle has no revision request")

	// ErrRevisionUnanswered indicates the latest revision request has no
	// student response yet.
	ErrRevisionUnanswered = errors.New("latest revision request is unanswered")

	// ErrForbidden indicates the actor's role does not permit the operation.
	ErrForbidden = errors.New("actor role not permitted for this operation")
)

// TransitionError reports an event attempted outside the transition table,
// carrying the state the instance is actually in.
type TransitionError struct {
	InstanceID string
	From       Status
	Event      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot apply %q to phase %s: phase is %s, valid events are %v",
		e.Event, e.InstanceID, e.From, e.From.ValidEvents())
}

// Is allows errors.Is to match ErrIllegalTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// PartialCommitError reports the revision-request saga failing between its two
// steps. RevisionID identifies the already-created request so the caller can
// retry appending the status record without duplicating the request.
type PartialCommitError struct {
	InstanceID string
	RevisionID string
	Err        error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("revision %s created on phase %s but status append failed: %v",
		e.RevisionID, e.InstanceID, e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ErrPartialCommit.
func (e *PartialCommitError) Is(target error) bool {
	return target == ErrPartialCommit
}
