// Package analytics derives progress and risk metrics for one project from its
// current task and phase data. Everything here is a pure function of its
// inputs: no side effects, no caching, recompute on every read.
package analytics

import (
	"math"

	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/task"
)

// Label classifies overall progress into a coarse project status.
type Label string

const (
	LabelNotStarted     Label = "not_started"
	LabelStarted        Label = "started"
	LabelInProgress     Label = "in_progress"
	LabelNearlyComplete Label = "nearly_complete"
	LabelCompleted      Label = "completed"
)

// Weights for blending task and phase completion into the overall figure. A
// weight is dropped entirely when its population is empty.
const (
	taskWeight  = 0.6
	phaseWeight = 0.4
)

// Report is the full derived view of one project's health.
type Report struct {
	TaskCompletion  int    `json:"task_completion"`
	PhaseCompletion int    `json:"phase_completion"`
	Overall         int    `json:"overall"`
	Label           Label  `json:"label"`
	Risk            Risk   `json:"risk"`
	Recommendations []string `json:"recommendations"`

	TotalTasks     int `json:"total_tasks"`
	DoneTasks      int `json:"done_tasks"`
	TotalPhases    int `json:"total_phases"`
	ResolvedPhases int `json:"resolved_phases"`
}

// Compute derives the full report from the project's tasks and the current
// status of each of its phases.
func Compute(tasks []task.Task, phases []phase.Status) Report {
	done := task.CountDone(tasks)
	taskPct := percentage(done, len(tasks))

	resolved := 0
	for _, s := range phases {
		if s.IsResolved() {
			resolved++
		}
	}
	phasePct := percentage(resolved, len(phases))

	overall := overallPercentage(taskPct, len(tasks), phasePct, len(phases))
	risk := classifyRisk(tasks, phases, taskPct)

	return Report{
		TaskCompletion:  taskPct,
		PhaseCompletion: phasePct,
		Overall:         overall,
		Label:           labelFor(overall),
		Risk:            risk,
		Recommendations: Recommendations(risk),
		TotalTasks:      len(tasks),
		DoneTasks:       done,
		TotalPhases:     len(phases),
		ResolvedPhases:  resolved,
	}
}

// percentage returns round(count/total*100), 0 when total is 0.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// overallPercentage blends the two completion figures. A weight participates
// only when its population is non-empty; with both empty the overall is 0.
func overallPercentage(taskPct, totalTasks, phasePct, totalPhases int) int {
	weighted := 0.0
	weightSum := 0.0
	if totalTasks > 0 {
		weighted += float64(taskPct) * taskWeight
		weightSum += taskWeight
	}
	if totalPhases > 0 {
		weighted += float64(phasePct) * phaseWeight
		weightSum += phaseWeight
	}
	if weightSum == 0 {
		return 0
	}
	return int(math.Round(weighted / weightSum))
}

func labelFor(overall int) Label {
	switch {
	case overall >= 100:
		return LabelCompleted
	case overall >= 80:
		return LabelNearlyComplete
	case overall >= 50:
		return LabelInProgress
	case overall > 0:
		return LabelStarted
	default:
		return LabelNotStarted
	}
}
