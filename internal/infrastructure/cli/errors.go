package cli

import (
	"errors"
	"fmt"

	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/revision"
	"github.com/campushub/phasetrack/internal/infrastructure/backend"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var transErr *phase.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("Phase is '%s' — run 'phasetrack phase show' to see its history and valid actions", transErr.From),
			err,
		)
	}

	var partial *phase.PartialCommitError
	if errors.As(err, &partial) {
		return NewCLIError(
			partial.Error(),
			fmt.Sprintf("The revision request %s was saved — run 'phasetrack phase retry-status' to finish the transition, do not request again", partial.RevisionID),
			err,
		)
	}

	switch {
	case errors.Is(err, phase.ErrInstanceExists):
		return NewCLIError(err.Error(),
			"The phase was already started once; open it instead of starting it again", err)
	case errors.Is(err, phase.ErrInstanceNotFound):
		return NewCLIError(err.Error(),
			"The phase has not been started yet — the student starts it with 'phasetrack phase start'", err)
	case errors.Is(err, phase.ErrReviewNotExercised):
		return NewCLIError(err.Error(),
			"Request at least one revision before closing the review", err)
	case errors.Is(err, phase.ErrRevisionUnanswered):
		return NewCLIError(err.Error(),
			"Wait for the student to answer the latest revision request", err)
	case errors.Is(err, phase.ErrForbidden):
		return NewCLIError(err.Error(),
			"Check the --role flag: students submit, teachers review", err)
	case errors.Is(err, revision.ErrAlreadyAnswered):
		return NewCLIError(err.Error(),
			"Each revision request accepts exactly one response; the first file is kept", err)
	case errors.Is(err, revision.ErrNotFound):
		return NewCLIError(err.Error(),
			"List the phase's revisions with 'phasetrack revisions' to find the right id", err)
	case errors.Is(err, backend.ErrUnavailable):
		return NewCLIError(err.Error(),
			"The backend did not answer; nothing was changed — retry when it is reachable", err)
	}

	return err
}

// PrintHint writes the hint of a CLIError, if any, after cobra has printed
// the error itself.
func PrintHint(err error) string {
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		return "hint: " + cliErr.Hint
	}
	return ""
}
