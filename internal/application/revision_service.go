package application

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/phasetrack/internal/domain"
	"github.com/campushub/phasetrack/internal/domain/events"
	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
)

// RevisionView is one revision request with its response status resolved for
// display.
type RevisionView struct {
	Request  revision.Request
	Answered bool
	Response string // filename of the revised file when answered
}

// RevisionService maintains the revision-request history of a phase instance
// and brokers the student response.
type RevisionService struct {
	backend  domain.ReviewBackend
	notifier Notifier
	now      func() time.Time
}

func NewRevisionService(backend domain.ReviewBackend, notifier Notifier) *RevisionService {
	return &RevisionService{backend: backend, notifier: notifier, now: time.Now}
}

// List returns the instance's revision requests in creation order.
func (s *RevisionService) List(ctx context.Context, instanceID string) ([]RevisionView, error) {
	requests, err := s.backend.ListRevisions(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	revision.SortByCreation(requests)

	views := make([]RevisionView, 0, len(requests))
	for _, r := range requests {
		v := RevisionView{Request: r, Answered: r.Answered()}
		if r.RevisedFile != nil {
			v.Response = r.RevisedFile.Filename
		}
		views = append(views, v)
	}
	return views, nil
}

// Answer sets the revised file on exactly one open request. Responses are
// accepted while the owning phase is revision_needed or already terminal
// (late answers preserve the audit trail), but never before or during review.
// A second answer always fails with revision.ErrAlreadyAnswered and never
// overwrites the first file.
func (s *RevisionService) Answer(ctx context.Context, ref Ref, requestID string, file revision.File, actor domain.Actor) error {
	if !actor.CanSubmit() {
		return fmt.Errorf("answer revision: role %s: %w", actor.Role, phase.ErrForbidden)
	}
	if file.Filename == "" {
		return fmt.Errorf("answer revision: filename must not be empty")
	}

	detail, err := s.backend.FetchPhaseDetail(ctx, ref.TemplateID, ref.ProjectID)
	if err != nil {
		return err
	}
	current := detail.CurrentStatus()
	if !answerable(current) {
		return fmt.Errorf("phase %s is %s, revision responses are only accepted from revision_needed or a terminal status: %w",
			detail.Instance.ID, current, phase.ErrIllegalTransition)
	}

	requests, err := s.backend.ListRevisions(ctx, detail.Instance.ID)
	if err != nil {
		return err
	}
	target := findRequest(requests, requestID)
	if target == nil {
		return fmt.Errorf("revision %s: %w", requestID, revision.ErrNotFound)
	}
	// Local pre-check; the backend guards the write itself with a conditional
	// update so two racing answers cannot both win.
	if err := target.Answer(file, s.now()); err != nil {
		return err
	}

	if err := s.backend.AnswerRevision(ctx, requestID, file); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, events.New(events.TypeRevisionAnswered, detail.Instance.ID, actor.ID).
			With("revision_id", requestID).
			With("filename", file.Filename))
	}
	return nil
}

// answerable reports whether the status permits a revision response.
func answerable(s phase.Status) bool {
	switch s {
	case phase.StatusRevisionNeeded, phase.StatusApproved, phase.StatusCompleted, phase.StatusFailed:
		return true
	default:
		return false
	}
}

func findRequest(requests []revision.Request, id string) *revision.Request {
	for i := range requests {
		if requests[i].ID == id {
			return &requests[i]
		}
	}
	return nil
}
