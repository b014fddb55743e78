package backend

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
)

// ErrUnavailable indicates the backend could not be reached or did not answer.
// It is the only nondeterministic failure mode; every other error is a
// deterministic outcome of the request.
var ErrUnavailable = errors.New("backend unavailable")

// Error codes the backend places in error payloads.
const (
	codeInstanceExists    = "instance_exists"
	codeInstanceNotFound  = "instance_not_found"
	codeIllegalTransition = "illegal_transition"
	codeAlreadyAnswered   = "already_answered"
	codeRevisionNotFound  = "revision_not_found"
)

// OpError is a backend-reported failure that does not map to a domain error.
type OpError struct {
	Op      string
	Code    string
	Message string
}

func (e *OpError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: %s: %s: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("backend: %s: %s", e.Op, e.Message)
}

// errorPayload is the JSON body of an error result.
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeOpError converts an error result into the matching domain error, or
// an *OpError when the code is unknown. Non-JSON bodies are carried verbatim.
func decodeOpError(op, text string) error {
	var payload errorPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return &OpError{Op: op, Message: text}
	}

	switch payload.Code {
	case codeInstanceExists:
		return fmt.Errorf("backend: %s: %s: %w", op, payload.Message, phase.ErrInstanceExists)
	case codeInstanceNotFound:
		return fmt.Errorf("backend: %s: %s: %w", op, payload.Message, phase.ErrInstanceNotFound)
	case codeIllegalTransition:
		return fmt.Errorf("backend: %s: %s: %w", op, payload.Message, phase.ErrIllegalTransition)
	case codeAlreadyAnswered:
		return fmt.Errorf("backend: %s: %s: %w", op, payload.Message, revision.ErrAlreadyAnswered)
	case codeRevisionNotFound:
		return fmt.Errorf("backend: %s: %s: %w", op, payload.Message, revision.ErrNotFound)
	default:
		return &OpError{Op: op, Code: payload.Code, Message: payload.Message}
	}
}
