package backend

import (
	"context"

	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
	"github.com/campushub/phasetrack/internal/domain/task"
)

type startPayload struct {
	InstanceID string `json:"instance_id"`
}

type revisionCreatePayload struct {
	RevisionID string `json:"revision_id"`
}

type revisionListPayload struct {
	Revisions []revision.Request `json:"revisions"`
}

type taskListPayload struct {
	Tasks []task.Task `json:"tasks"`
}

// StartPhaseInstance creates the instance and its initial in_progress record.
func (c *Client) StartPhaseInstance(ctx context.Context, templateID, projectID, actorID string) (string, error) {
	result, err := c.callWrite(ctx, opStartPhase, map[string]any{
		"template_id": templateID,
		"project_id":  projectID,
		"actor_id":    actorID,
	})
	if err != nil {
		return "", err
	}
	payload, err := decodePayload[startPayload](opStartPhase, result, startSchema)
	if err != nil {
		return "", err
	}
	return payload.InstanceID, nil
}

// FetchPhaseDetail returns the instance with its append-only logs.
func (c *Client) FetchPhaseDetail(ctx context.Context, templateID, projectID string) (*phase.Detail, error) {
	result, err := c.callRead(ctx, opPhaseDetail, map[string]any{
		"template_id": templateID,
		"project_id":  projectID,
	})
	if err != nil {
		return nil, err
	}
	detail, err := decodePayload[phase.Detail](opPhaseDetail, result, detailSchema)
	if err != nil {
		return nil, err
	}
	phase.SortHistory(detail.History)
	return detail, nil
}

// SendToReview appends an under_review status record.
func (c *Client) SendToReview(ctx context.Context, instanceID, actorID string) error {
	_, err := c.callWrite(ctx, opSendToReview, map[string]any{
		"instance_id": instanceID,
		"actor_id":    actorID,
	})
	return err
}

// ApprovePhase appends the terminal review record; the boolean flag covers
// both approve and decline.
func (c *Client) ApprovePhase(ctx context.Context, instanceID, actorID string, approve bool) error {
	_, err := c.callWrite(ctx, opApprovePhase, map[string]any{
		"instance_id": instanceID,
		"actor_id":    actorID,
		"approve":     approve,
	})
	return err
}

// CreateRevisionRequest records teacher feedback, returning the request id.
func (c *Client) CreateRevisionRequest(ctx context.Context, instanceID, actorID, feedback string, referenceFile *revision.File) (string, error) {
	args := map[string]any{
		"instance_id": instanceID,
		"actor_id":    actorID,
		"feedback":    feedback,
	}
	if referenceFile != nil {
		args["reference_file"] = map[string]any{
			"id":       referenceFile.ID,
			"filename": referenceFile.Filename,
		}
	}
	result, err := c.callWrite(ctx, opCreateRevision, args)
	if err != nil {
		return "", err
	}
	payload, err := decodePayload[revisionCreatePayload](opCreateRevision, result, revisionCreateSchema)
	if err != nil {
		return "", err
	}
	return payload.RevisionID, nil
}

// AppendRevisionStatus appends the revision_needed status record.
func (c *Client) AppendRevisionStatus(ctx context.Context, instanceID, actorID string) error {
	_, err := c.callWrite(ctx, opAppendRevision, map[string]any{
		"instance_id": instanceID,
		"actor_id":    actorID,
	})
	return err
}

// AnswerRevision sets the revised file on an open request. The backend write
// is conditional on the field still being null, so racing answers cannot both
// succeed.
func (c *Client) AnswerRevision(ctx context.Context, requestID string, file revision.File) error {
	_, err := c.callWrite(ctx, opAnswerRevision, map[string]any{
		"request_id": requestID,
		"file": map[string]any{
			"id":       file.ID,
			"filename": file.Filename,
		},
	})
	return err
}

// ListRevisions returns all revision requests for an instance.
func (c *Client) ListRevisions(ctx context.Context, instanceID string) ([]revision.Request, error) {
	result, err := c.callRead(ctx, opListRevisions, map[string]any{
		"instance_id": instanceID,
	})
	if err != nil {
		return nil, err
	}
	payload, err := decodePayload[revisionListPayload](opListRevisions, result, revisionListSchema)
	if err != nil {
		return nil, err
	}
	return payload.Revisions, nil
}

// PostDiscussion appends a discussion message.
func (c *Client) PostDiscussion(ctx context.Context, instanceID, actorID, text string) (*phase.Discussion, error) {
	result, err := c.callWrite(ctx, opPostDiscussion, map[string]any{
		"instance_id": instanceID,
		"actor_id":    actorID,
		"text":        text,
	})
	if err != nil {
		return nil, err
	}
	return decodePayload[phase.Discussion](opPostDiscussion, result, discussionSchema)
}

// UploadAttachment appends a general file record.
func (c *Client) UploadAttachment(ctx context.Context, instanceID, actorID string, file revision.File) (*phase.Attachment, error) {
	result, err := c.callWrite(ctx, opUploadFile, map[string]any{
		"instance_id": instanceID,
		"actor_id":    actorID,
		"file": map[string]any{
			"id":       file.ID,
			"filename": file.Filename,
		},
	})
	if err != nil {
		return nil, err
	}
	return decodePayload[phase.Attachment](opUploadFile, result, attachmentSchema)
}

// FetchTasks returns the project's tasks for the analytics engine.
func (c *Client) FetchTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	result, err := c.callRead(ctx, opListTasks, map[string]any{
		"project_id": projectID,
	})
	if err != nil {
		return nil, err
	}
	payload, err := decodePayload[taskListPayload](opListTasks, result, taskListSchema)
	if err != nil {
		return nil, err
	}
	return payload.Tasks, nil
}
