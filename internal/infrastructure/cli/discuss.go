package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campushub/phasetrack/internal/domain/revision"
)

var discussCmd = &cobra.Command{
	Use:   "discuss [message]",
	Short: "Post a discussion message on a phase",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiscuss,
}

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach an uploaded file to a phase",
	RunE:  runAttach,
}

func runDiscuss(cmd *cobra.Command, args []string) error {
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

	detail, err := services.Phases.Detail(cmd.Context(), ref)
	if err != nil {
		return MapError(fmt.Errorf("fetch phase: %w", err))
	}

	text := strings.Join(args, " ")
	if _, err := services.Phases.PostDiscussion(cmd.Context(), detail.Instance.ID, text, actor); err != nil {
		return MapError(fmt.Errorf("post discussion: %w", err))
	}
	fmt.Println("Message posted.")
	return nil
}

func runAttach(cmd *cobra.Command, args []string) error {
	ref, err := phaseRef(flagTemplate, flagProject)
	if err != nil {
		return err
	}
	actor, err := currentActor()
	if err != nil {
		return err
	}
	if flagFileID == "" || flagFilename == "" {
		return fmt.Errorf("both --file and --name are required")
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

	file := revision.File{ID: flagFileID, Filename: flagFilename}
	if _, err := services.Phases.UploadAttachment(cmd.Context(), detail.Instance.ID, file, actor); err != nil {
		return MapError(fmt.Errorf("upload attachment: %w", err))
	}
	fmt.Printf("Attached %s.\n", file.Filename)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{discussCmd, attachCmd} {
		cmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Phase template id")
		cmd.Flags().StringVarP(&flagProject, "project", "p", "", "Student project id")
	}
	attachCmd.Flags().StringVar(&flagFileID, "file", "", "Id of the uploaded file")
	attachCmd.Flags().StringVar(&flagFilename, "name", "", "Filename of the uploaded file")

	RootCmd.AddCommand(discussCmd)
	RootCmd.AddCommand(attachCmd)
}
