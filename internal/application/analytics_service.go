package application

import (
	"context"
	"errors"

	"github.com/campushub/phasetrack/internal/domain"
	"github.com/campushub/phasetrack/internal/domain/analytics"
	"github.com/campushub/phasetrack/internal/domain/phase"
)

// AnalyticsService assembles the inputs for the progress and risk engine from
// the backend and runs the pure computation. Reports are derived on every
// call, never stored: staleness is impossible by construction.
type AnalyticsService struct {
	backend domain.ReviewBackend
}

func NewAnalyticsService(backend domain.ReviewBackend) *AnalyticsService {
	return &AnalyticsService{backend: backend}
}

// ProjectProgress computes the current report for one project. templateIDs
// enumerates the master project's phase templates; a template the student has
// not started yet contributes a not_started phase.
func (s *AnalyticsService) ProjectProgress(ctx context.Context, projectID string, templateIDs []string) (*analytics.Report, error) {
	tasks, err := s.backend.FetchTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	statuses := make([]phase.Status, 0, len(templateIDs))
	for _, templateID := range templateIDs {
		detail, err := s.backend.FetchPhaseDetail(ctx, templateID, projectID)
		switch {
		case err == nil:
			statuses = append(statuses, detail.CurrentStatus())
		case errors.Is(err, phase.ErrInstanceNotFound):
			statuses = append(statuses, phase.StatusNotStarted)
		default:
			return nil, err
		}
	}

	report := analytics.Compute(tasks, statuses)
	return &report, nil
}
