// Package phase holds the review-state model for one phase template applied to
// one student project: the instance itself, its append-only status history and
// the discussion and attachment logs that hang off it.
package phase

import (
	"sort"
	"time"
)

// Template is the immutable milestone definition owned by the master project.
// Teachers configure templates elsewhere; this core only reads them.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Sequence    int       `json:"sequence"`
}

// Instance is one student project's live attempt at a Template. Created once,
// on the first start, and never deleted. The (TemplateID, ProjectID) pair is
// unique across all instances.
type Instance struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	ProjectID  string    `json:"project_id"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusRecord is one append-only entry in an instance's status history. The
// history is never rewritten; the current status is derived from it.
type StatusRecord struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Status     Status    `json:"status"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Discussion is one append-only message on an instance, visible to both roles.
type Discussion struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Attachment is one append-only file record on an instance. Distinct from
// revision files, which are scoped to a single feedback cycle.
type Attachment struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Author     string    `json:"author"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detail is the full remote view of an instance: identity plus every
// append-only log the backend stores for it.
type Detail struct {
	Instance    Instance       `json:"instance"`
	History     []StatusRecord `json:"history"`
	Discussions []Discussion   `json:"discussions"`
	Attachments []Attachment   `json:"attachments"`
}

// CurrentStatus derives the status of an instance from its history: the
// status of the record with the greatest CreatedAt, or NotStarted when the
// history is empty. Ties on CreatedAt break by record ID so the result is
// deterministic. This is the only status-derivation rule in the system.
func CurrentStatus(history []StatusRecord) Status {
	if len(history) == 0 {
		return StatusNotStarted
	}
	latest := history[0]
	for _, rec := range history[1:] {
		if rec.CreatedAt.After(latest.CreatedAt) ||
			(rec.CreatedAt.Equal(latest.CreatedAt) && rec.ID > latest.ID) {
			latest = rec
		}
	}
	return latest.Status
}

// SortHistory orders records oldest first, ties broken by ID. The backend does
// not guarantee delivery order.
func SortHistory(history []StatusRecord) {
	sort.Slice(history, func(i, j int) bool {
		if history[i].CreatedAt.Equal(history[j].CreatedAt) {
			return history[i].ID < history[j].ID
		}
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})
}

// CurrentStatus derives the detail's phase status from its history.
func (d *Detail) CurrentStatus() Status {
	return CurrentStatus(d.History)
}
