package domain

import (
	"context"

	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
	"github.com/campushub/phasetrack/internal/domain/task"
)

// ReviewBackend is the port to the remote persistence/notification backend.
// Each method is one operation-tagged exchange; the backend owns storage, the
// core owns transition legality. A failed call leaves no local state behind.
type ReviewBackend interface {
	// StartPhaseInstance creates the instance for a (template, project) pair
	// together with its initial in_progress record, returning the instance id.
	// Fails with phase.ErrInstanceExists when the pair already has an instance.
	StartPhaseInstance(ctx context.Context, templateID, projectID, actorID string) (string, error)

	// FetchPhaseDetail returns the instance and all of its append-only logs.
	// Fails with phase.ErrInstanceNotFound when the pair has no instance.
	FetchPhaseDetail(ctx context.Context, templateID, projectID string) (*phase.Detail, error)

	// SendToReview appends an under_review status record.
	SendToReview(ctx context.Context, instanceID, actorID string) error

	// ApprovePhase appends the terminal record for a review: approved when
	// approve is true, failed otherwise.
	ApprovePhase(ctx context.Context, instanceID, actorID string, approve bool) error

	// CreateRevisionRequest records teacher feedback and returns the new
	// request id. First step of the two-step revision saga.
	CreateRevisionRequest(ctx context.Context, instanceID, actorID, feedback string, referenceFile *revision.File) (string, error)

	// AppendRevisionStatus appends the revision_needed status record. Second
	// step of the revision saga, retryable on its own.
	AppendRevisionStatus(ctx context.Context, instanceID, actorID string) error

	// AnswerRevision sets the revised file on an open request. Fails with
	// revision.ErrAlreadyAnswered or revision.ErrNotFound.
	AnswerRevision(ctx context.Context, requestID string, file revision.File) error

	// ListRevisions returns all revision requests for an instance.
	ListRevisions(ctx context.Context, instanceID string) ([]revision.Request, error)

	// PostDiscussion appends a discussion message.
	PostDiscussion(ctx context.Context, instanceID, actorID, text string) (*phase.Discussion, error)

	// UploadAttachment appends a general file record.
	UploadAttachment(ctx context.Context, instanceID, actorID string, file revision.File) (*phase.Attachment, error)

	// FetchTasks returns the project's tasks for the analytics engine.
	FetchTasks(ctx context.Context, projectID string) ([]task.Task, error)
}
