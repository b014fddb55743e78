package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campushub/phasetrack/internal/application"
	"github.com/campushub/phasetrack/internal/domain"
	"github.com/campushub/phasetrack/internal/domain/revision"
)

var (
	flagTemplate string
	flagProject  string
	flagFeedback string
	flagRefFile  string
	flagRefName  string
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Drive the review workflow of one phase",
}

var phaseStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a phase for the student's project",
	RunE:  runPhaseStart,
}

var phaseShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a phase's current status and history",
	RunE:  runPhaseShow,
}

var phaseReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Send an in-progress or revised phase to review",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, func(svc *application.PhaseService, ref application.Ref, actor domain.Actor) error {
			return svc.SendToReview(cmd.Context(), ref, actor)
		}, "sent to review")
	},
}

var phaseApproveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve a phase under review",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, func(svc *application.PhaseService, ref application.Ref, actor domain.Actor) error {
			return svc.Approve(cmd.Context(), ref, actor)
		}, "approved")
	},
}

var phaseDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline a phase under review",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, func(svc *application.PhaseService, ref application.Ref, actor domain.Actor) error {
			return svc.Decline(cmd.Context(), ref, actor)
		}, "declined")
	},
}

var phaseReviseCmd = &cobra.Command{
	Use:   "revise",
	Short: "Request a revision with feedback and an optional reference file",
	RunE:  runPhaseRevise,
}

var phaseRetryStatusCmd = &cobra.Command{
	Use:   "retry-status",
	Short: "Finish a revision request whose status append failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, func(svc *application.PhaseService, ref application.Ref, actor domain.Actor) error {
			return svc.RetryRevisionStatus(cmd.Context(), ref, actor)
		}, "moved to revision needed")
	},
}

func runPhaseStart(cmd *cobra.Command, args []string) error {
	ref, err := phaseRef(flagTemplate, flagProject)
	if err != nil {
		return err
	}
	actor, err := currentActor()
	if err != nil {
		return err
	}

	services, cleanup, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	instanceID, err := services.Phases.StartPhase(cmd.Context(), ref, actor)
	if err != nil {
		return MapError(fmt.Errorf("start phase: %w", err))
	}
	fmt.Printf("Phase started: instance %s\n", instanceID)
	return nil
}

func runPhaseShow(cmd *cobra.Command, args []string) error {
	ref, err := phaseRef(flagTemplate, flagProject)
	if err != nil {
		return err
	}

	services, cleanup, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	detail, err := services.Phases.Detail(cmd.Context(), ref)
	if err != nil {
		return MapError(fmt.Errorf("fetch phase: %w", err))
	}

	fmt.Printf("Phase %s (project %s)\n", detail.Instance.TemplateID, detail.Instance.ProjectID)
	fmt.Printf("Status: %s\n", detail.CurrentStatus())
	if len(detail.History) > 0 {
		fmt.Println("History:")
		for _, rec := range detail.History {
			fmt.Printf("  %s  %s  by %s\n", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Status, rec.CreatedBy)
		}
	}
	if len(detail.Discussions) > 0 {
		fmt.Printf("Discussion messages: %d\n", len(detail.Discussions))
	}
	if len(detail.Attachments) > 0 {
		fmt.Printf("Attachments: %d\n", len(detail.Attachments))
	}
	return nil
}

func runPhaseRevise(cmd *cobra.Command, args []string) error {
	ref, err := phaseRef(flagTemplate, flagProject)
	if err != nil {
		return err
	}
	actor, err := currentActor()
	if err != nil {
		return err
	}

	var refFile *revision.File
	if flagRefFile != "" {
		refFile = &revision.File{ID: flagRefFile, Filename: flagRefName}
	}

	services, cleanup, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	revisionID, err := services.Phases.RequestRevision(cmd.Context(), ref, flagFeedback, refFile, actor)
	if err != nil {
		return MapError(fmt.Errorf("request revision: %w", err))
	}
	fmt.Printf("Revision requested: %s\n", revisionID)
	return nil
}

func runTransition(cmd *cobra.Command, fn func(*application.PhaseService, application.Ref, domain.Actor) error, done string) error {
	ref, err := phaseRef(flagTemplate, flagProject)
	if err != nil {
		return err
	}
	actor, err := currentActor()
	if err != nil {
		return err
	}

	services, cleanup, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := fn(services.Phases, ref, actor); err != nil {
		return MapError(err)
	}
	fmt.Printf("Phase %s.\n", done)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{
		phaseStartCmd, phaseShowCmd, phaseReviewCmd, phaseApproveCmd,
		phaseDeclineCmd, phaseReviseCmd, phaseRetryStatusCmd,
	} {
		cmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Phase template id")
		cmd.Flags().StringVarP(&flagProject, "project", "p", "", "Student project id")
		phaseCmd.AddCommand(cmd)
	}
	phaseReviseCmd.Flags().StringVarP(&flagFeedback, "feedback", "f", "", "Feedback text for the revision request")
	phaseReviseCmd.Flags().StringVar(&flagRefFile, "ref-file", "", "Id of an uploaded reference file")
	phaseReviseCmd.Flags().StringVar(&flagRefName, "ref-name", "", "Filename of the reference file")

	RootCmd.AddCommand(phaseCmd)
}
