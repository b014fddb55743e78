// Package events defines the notification events emitted when a phase moves
// through the review workflow.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the phase services.
const (
	TypePhaseStarted      = "phase.started"
	TypePhaseSentToReview = "phase.sent_to_review"
	TypePhaseApproved     = "phase.approved"
	TypePhaseDeclined     = "phase.declined"
	TypeRevisionRequested = "phase.revision_requested"
	TypeRevisionAnswered  = "phase.revision_answered"
	TypeDiscussionPosted  = "phase.discussion_posted"
	TypeAttachmentAdded   = "phase.attachment_added"
)

// Event is one notification about a phase instance, delivered to messaging
// adapters after the backend has committed the change.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	InstanceID string         `json:"instance_id"`
	ProjectID  string         `json:"project_id,omitempty"`
	Actor      string         `json:"actor"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// New builds an event with a fresh id and the current time.
func New(eventType, instanceID, actor string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		InstanceID: instanceID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Metadata:   make(map[string]any),
	}
}

// With adds one metadata entry and returns the event for chaining.
func (e *Event) With(key string, value any) *Event {
	e.Metadata[key] = value
	return e
}
