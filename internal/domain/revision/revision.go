// Package revision models the teacher feedback loop nested inside a phase
// review: one-to-many revision requests per phase instance, each answerable at
// most once by the student.
package revision

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Domain errors for the revision subsystem.
var (
	// ErrAlreadyAnswered indicates the request's revised file is already set.
	ErrAlreadyAnswered = errors.New("revision request already answered")

	// ErrNotFound indicates the revision request id is unknown.
	ErrNotFound = errors.New("revision request not found")
)

// File is a reference to a stored file. Transport and storage of the bytes
// belong to the backend; the core only carries the reference.
type File struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// Request is one teacher feedback cycle on a phase instance. The revised file
// is nil until the student answers; setting it is append-once.
type Request struct {
	ID            string     `json:"id"`
	InstanceID    string     `json:"instance_id"`
	CreatedBy     string     `json:"created_by"`
	Feedback      string     `json:"feedback"`
	ReferenceFile *File      `json:"reference_file,omitempty"`
	RevisedFile   *File      `json:"revised_file,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Answered reports whether the student has responded to this request.
func (r *Request) Answered() bool {
	return r.RevisedFile != nil
}

// Answer records the student's response. It fails with ErrAlreadyAnswered if a
// revised file is already present; the first file is never overwritten.
func (r *Request) Answer(file File, at time.Time) error {
	if r.Answered() {
		return fmt.Errorf("revision %s: %w", r.ID, ErrAlreadyAnswered)
	}
	f := file
	r.RevisedFile = &f
	t := at
	r.RespondedAt = &t
	return nil
}

// SortByCreation orders requests oldest first, ties broken by ID.
func SortByCreation(requests []Request) {
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
}

// Latest returns the most recently created request, or nil when none exist.
func Latest(requests []Request) *Request {
	if len(requests) == 0 {
		return nil
	}
	latest := &requests[0]
	for i := range requests[1:] {
		r := &requests[i+1]
		if r.CreatedAt.After(latest.CreatedAt) ||
			(r.CreatedAt.Equal(latest.CreatedAt) && r.ID > latest.ID) {
			latest = r
		}
	}
	return latest
}
