package analytics

import (
	"github.com/campushub/phasetrack/internal/domain/phase"
	"github.com/campushub/phasetrack/internal/domain/task"
)

// Risk is the three-tier project health signal, plus Unknown when no phases
// exist to analyze.
type Risk string

const (
	RiskGood     Risk = "good"
	RiskMedium   Risk = "medium"
	RiskCritical Risk = "critical"
	RiskUnknown  Risk = "unknown"
)

// Tier boundaries. These are exact contracts: revisionThreshold is inclusive,
// the task/completion pair in the medium rule are both strict.
const (
	revisionThreshold   = 30.0
	taskRateThreshold   = 60.0
	completionThreshold = 50.0
)

// classifyRisk derives the risk tier from the phase status distribution and
// the task completion percentage.
//
// Critical: every phase failed and tasks are not fully done.
// Medium: any failed phase, or revision rate at or above 30%, or low task
// completion combined with low phase completion.
// Good: everything else.
func classifyRisk(tasks []task.Task, phases []phase.Status, taskPct int) Risk {
	total := len(phases)
	if total == 0 {
		return RiskUnknown
	}

	failed, revising, completed := 0, 0, 0
	for _, s := range phases {
		switch s {
		case phase.StatusFailed:
			failed++
		case phase.StatusRevisionNeeded:
			revising++
		case phase.StatusCompleted, phase.StatusApproved:
			completed++
		}
	}

	taskRate := float64(taskPct)
	failedRate := float64(failed) / float64(total) * 100
	revisionRate := float64(revising) / float64(total) * 100
	completionRate := float64(completed) / float64(total) * 100

	if failed == total && taskRate < 100 {
		return RiskCritical
	}
	if failedRate > 0 ||
		revisionRate >= revisionThreshold ||
		(taskRate < taskRateThreshold && completionRate < completionThreshold) {
		return RiskMedium
	}
	return RiskGood
}

// recommendationsByTier is the fixed advice text shown with each tier. The
// wording is presentation copy; the tier boundaries above are the contract.
var recommendationsByTier = map[Risk][]string{
	RiskGood: {
		"Project is on track. Keep the current pace.",
		"Continue regular check-ins between student and supervisor.",
	},
	RiskMedium: {
		"Schedule a supervision meeting to review open phases.",
		"Prioritize answering outstanding revision requests.",
		"Break remaining tasks into smaller, assignable pieces.",
	},
	RiskCritical: {
		"Escalate to the program coordinator immediately.",
		"Arrange an urgent meeting between student and supervisor.",
		"Re-plan the remaining phases with revised deadlines.",
		"Review whether the project scope is still achievable.",
	},
	RiskUnknown: {
		"No phases have been configured yet; start the first phase to enable analysis.",
	},
}

// Recommendations returns the fixed advice set for a tier. The returned slice
// is a copy; callers may not mutate the table.
func Recommendations(r Risk) []string {
	msgs, ok := recommendationsByTier[r]
	if !ok {
		return nil
	}
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}
