package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campushub/phasetrack/internal/domain/revision"
)

var (
	flagRevisionID string
	flagFileID     string
	flagFilename   string
)

var revisionsCmd = &cobra.Command{
	Use:   "revisions",
	Short: "List a phase's revision requests in creation order",
	RunE:  runRevisionsList,
}

var respondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Answer a revision request with a revised file",
	RunE:  runRespond,
}

func runRevisionsList(cmd *cobra.Command, args []string) error {
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
	views, err := services.Revisions.List(cmd.Context(), detail.Instance.ID)
	if err != nil {
		return MapError(fmt.Errorf("list revisions: %w", err))
	}

	if len(views) == 0 {
		fmt.Println("No revision requests.")
		return nil
	}
	for i, v := range views {
		state := "open"
		if v.Answered {
			state = "answered: " + v.Response
		}
		fmt.Printf("%d. [%s] %s — %s\n", i+1, v.Request.ID, v.Request.Feedback, state)
		if v.Request.ReferenceFile != nil {
			fmt.Printf("   reference: %s\n", v.Request.ReferenceFile.Filename)
		}
	}
	return nil
}

func runRespond(cmd *cobra.Command, args []string) error {
	ref, err := phaseRef(flagTemplate, flagProject)
	if err != nil {
		return err
	}
	actor, err := currentActor()
	if err != nil {
		return err
	}
	if flagRevisionID == "" {
		return fmt.Errorf("--revision is required")
	}

	services, cleanup, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	file := revision.File{ID: flagFileID, Filename: flagFilename}
	if err := services.Revisions.Answer(cmd.Context(), ref, flagRevisionID, file, actor); err != nil {
		return MapError(fmt.Errorf("answer revision: %w", err))
	}
	fmt.Printf("Revision %s answered with %s.\n", flagRevisionID, file.Filename)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{revisionsCmd, respondCmd} {
		cmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Phase template id")
		cmd.Flags().StringVarP(&flagProject, "project", "p", "", "Student project id")
	}
	respondCmd.Flags().StringVar(&flagRevisionID, "revision", "", "Revision request id to answer")
	respondCmd.Flags().StringVar(&flagFileID, "file", "", "Id of the uploaded revised file")
	respondCmd.Flags().StringVar(&flagFilename, "name", "", "Filename of the revised file")

	RootCmd.AddCommand(revisionsCmd)
	RootCmd.AddCommand(respondCmd)
}
