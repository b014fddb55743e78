// Package application orchestrates the phase review workflow: it checks
// transition legality and review policy against the current remote state, then
// issues the matching backend operation. All state lives behind the backend;
// a failed call changes nothing locally.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/phasetrack/internal/domain"
	"github.com/campushub/phasetrack/internal/domain/events"
	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
)

// Ref locates the phase instance for one (template, project) pair.
type Ref struct {
	TemplateID string
	ProjectID  string
}

// Notifier delivers phase events to the configured messaging channels.
// Delivery is best-effort: the transition is already committed remotely when
// a notification goes out.
type Notifier interface {
	Publish(ctx context.Context, event *events.Event)
}

// PhaseService drives the review state machine for phase instances.
type PhaseService struct {
	backend  domain.ReviewBackend
	notifier Notifier
}

func NewPhaseService(backend domain.ReviewBackend, notifier Notifier) *PhaseService {
	return &PhaseService{backend: backend, notifier: notifier}
}

// Detail fetches the instance's remote view. Callers read the current status
// through Detail.CurrentStatus; no other derivation exists.
func (s *PhaseService) Detail(ctx context.Context, ref Ref) (*phase.Detail, error) {
	return s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
}

// StartPhase creates the instance for a (template, project) pair and its
// initial in_progress record. The backend does not guarantee idempotency, so
// existence is checked first; an existing instance is rejected with
// phase.ErrInstanceExists naming its current status.
func (s *PhaseService) StartPhase(ctx context.Context, ref Ref, actor domain.Actor) (string, error) {
	if !actor.CanSubmit() {
		return "", fmt.Errorf("start phase: role %s: %w", actor.Role, phase.ErrForbidden)
	}

	detail, err := s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
	switch {
	case err == nil:
		return "", fmt.Errorf("phase %s already started (currently %s): %w",
			detail.Instance.ID, detail.CurrentStatus(), phase.ErrInstanceExists)
	case errors.Is(err, phase.ErrInstanceNotFound):
		// No instance yet: the start transition is legal.
	default:
		return "", err
	}

	instanceID, err := s.backend.StartPhaseInstance(ctx, ref.TemplateID, ref.ProjectID, actor.ID)
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.New(events.TypePhaseStarted, instanceID, actor.ID).
		With("template_id", ref.TemplateID).
		With("project_id", ref.ProjectID))
	return instanceID, nil
}

// SendToReview moves an in_progress or revision_needed phase to under_review.
// Out of revision_needed, the latest revision request must be answered before
// the teacher can re-review.
func (s *PhaseService) SendToReview(ctx context.Context, ref Ref, actor domain.Actor) error {
	if !actor.CanReview() {
		return fmt.Errorf("send to review: role %s: %w", actor.Role, phase.ErrForbidden)
	}

	detail, err := s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
	if err != nil {
		return err
	}
	current := detail.CurrentStatus()

	if current == phase.StatusRevisionNeeded {
		latest, err := s.latestRevision(ctx, detail.Instance.ID)
		if err != nil {
			return err
		}
		if latest != nil && !latest.Answered() {
			return fmt.Errorf("phase %s: revision %s: %w",
				detail.Instance.ID, latest.ID, phase.ErrRevisionUnanswered)
		}
	}

	if err := s.transition(current, detail.Instance.ID, phase.EventSendToReview, actor); err != nil {
		return err
	}
	if err := s.backend.SendToReview(ctx, detail.Instance.ID, actor.ID); err != nil {
		return err
	}

	s.publish(ctx, events.New(events.TypePhaseSentToReview, detail.Instance.ID, actor.ID).
		With("from", current.String()).
		With("to", phase.StatusUnderReview.String()))
	return nil
}

// Approve appends the approved terminal record. Requires the phase to be
// under_review and at least one revision request on record: approval is only
// exercised after a review pass.
func (s *PhaseService) Approve(ctx context.Context, ref Ref, actor domain.Actor) error {
	return s.closeReview(ctx, ref, actor, true)
}

// Decline appends the failed terminal record, under the same preconditions as
// Approve.
func (s *PhaseService) Decline(ctx context.Context, ref Ref, actor domain.Actor) error {
	return s.closeReview(ctx, ref, actor, false)
}

func (s *PhaseService) closeReview(ctx context.Context, ref Ref, actor domain.Actor, approve bool) error {
	event := phase.EventApprove
	if !approve {
		event = phase.EventDecline
	}
	if !actor.CanReview() {
		return fmt.Errorf("%s: role %s: %w", event, actor.Role, phase.ErrForbidden)
	}

	detail, err := s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
	if err != nil {
		return err
	}
	current := detail.CurrentStatus()

	revisions, err := s.backend.ListRevisions(ctx, detail.Instance.ID)
	if err != nil {
		return err
	}
	if len(revisions) == 0 {
		return fmt.Errorf("phase %s: %w", detail.Instance.ID, phase.ErrReviewNotExercised)
	}

	if err := s.transition(current, detail.Instance.ID, event, actor); err != nil {
		return err
	}
	if err := s.backend.ApprovePhase(ctx, detail.Instance.ID, actor.ID, approve); err != nil {
		return err
	}

	eventType := events.TypePhaseApproved
	target := phase.StatusApproved
	if !approve {
		eventType = events.TypePhaseDeclined
		target = phase.StatusFailed
	}
	s.publish(ctx, events.New(eventType, detail.Instance.ID, actor.ID).
		With("from", current.String()).
		With("to", target.String()))
	return nil
}

// RequestRevision records teacher feedback and moves the phase to
// revision_needed. The backend exposes this as two operations; when the
// request is created but the status append fails, the error is a
// *phase.PartialCommitError carrying the request id so the caller retries
// RetryRevisionStatus instead of duplicating the request.
func (s *PhaseService) RequestRevision(ctx context.Context, ref Ref, feedback string, referenceFile *revision.File, actor domain.Actor) (string, error) {
	if !actor.CanReview() {
		return "", fmt.Errorf("request revision: role %s: %w", actor.Role, phase.ErrForbidden)
	}
	if feedback == "" {
		return "", fmt.Errorf("request revision: feedback must not be empty")
	}

	detail, err := s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
	if err != nil {
		return "", err
	}
	current := detail.CurrentStatus()

	if err := s.transition(current, detail.Instance.ID, phase.EventRequestRevision, actor); err != nil {
		return "", err
	}

	revisionID, err := s.backend.CreateRevisionRequest(ctx, detail.Instance.ID, actor.ID, feedback, referenceFile)
	if err != nil {
		return "", err
	}
	if err := s.backend.AppendRevisionStatus(ctx, detail.Instance.ID, actor.ID); err != nil {
		return revisionID, &phase.PartialCommitError{
			InstanceID: detail.Instance.ID,
			RevisionID: revisionID,
			Err:        err,
		}
	}

	s.publish(ctx, events.New(events.TypeRevisionRequested, detail.Instance.ID, actor.ID).
		With("revision_id", revisionID))
	return revisionID, nil
}

// RetryRevisionStatus completes a revision saga whose status append failed.
// It only appends the revision_needed record; the already-created request is
// left alone.
func (s *PhaseService) RetryRevisionStatus(ctx context.Context, ref Ref, actor domain.Actor) error {
	if !actor.CanReview() {
		return fmt.Errorf("retry revision status: role %s: %w", actor.Role, phase.ErrForbidden)
	}

	detail, err := s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
	if err != nil {
		return err
	}
	current := detail.CurrentStatus()
	// The interrupted saga leaves the phase under_review with the request
	// already stored. Anything else means there is nothing to repair.
	if current != phase.StatusUnderReview {
		return &phase.TransitionError{
			InstanceID: detail.Instance.ID,
			From:       current,
			Event:      phase.EventRequestRevision,
		}
	}
	return s.backend.AppendRevisionStatus(ctx, detail.Instance.ID, actor.ID)
}

// PostDiscussion appends a message to the instance's discussion log. Legal in
// every status once the instance exists.
func (s *PhaseService) PostDiscussion(ctx context.Context, instanceID, text string, actor domain.Actor) (*phase.Discussion, error) {
	if text == "" {
		return nil, fmt.Errorf("post discussion: text must not be empty")
	}
	msg, err := s.backend.PostDiscussion(ctx, instanceID, actor.ID, text)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.TypeDiscussionPosted, instanceID, actor.ID))
	return msg, nil
}

// UploadAttachment appends a general file record to the instance. Legal in
// every status once the instance exists.
func (s *PhaseService) UploadAttachment(ctx context.Context, instanceID string, file revision.File, actor domain.Actor) (*phase.Attachment, error) {
	if file.Filename == "" {
		return nil, fmt.Errorf("upload attachment: filename must not be empty")
	}
	att, err := s.backend.UploadAttachment(ctx, instanceID, actor.ID, file)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.TypeAttachmentAdded, instanceID, actor.ID).
		With("filename", file.Filename))
	return att, nil
}

// transition validates the event against the review state machine. The role
// guard mirrors the explicit checks above so a bypassed pre-check still cannot
// move the machine.
func (s *PhaseService) transition(current phase.Status, instanceID, event string, actor domain.Actor) error {
	guard := func(_ string, ev string) bool {
		if ev == phase.EventStart {
			return actor.CanSubmit()
		}
		return actor.CanReview()
	}
	sm, err := phase.NewReviewStateMachine(current, instanceID, guard)
	if err != nil {
		return err
	}
	_, err = sm.Transition(event)
	return err
}

func (s *PhaseService) latestRevision(ctx context.Context, instanceID string) (*revision.Request, error) {
	revisions, err := s.backend.ListRevisions(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return revision.Latest(revisions), nil
}

func (s *PhaseService) publish(ctx context.Context, event *events.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, event)
}
