package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagTemplates    string
	flagProgressJSON bool
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Compute a project's completion and risk figures",
	Long: `Compute a project's completion and risk figures from its current
task and phase data. The report is derived on every call; nothing is cached.

Examples:
  phasetrack progress -p proj-1 --templates tpl-1,tpl-2,tpl-3
  phasetrack progress -p proj-1 --templates tpl-1 --json`,
	RunE: runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	if flagProject == "" {
		return fmt.Errorf("--project is required")
	}
	var templateIDs []string
	for _, id := range strings.Split(flagTemplates, ",") {
		if id = strings.TrimSpace(id); id != "" {
			templateIDs = append(templateIDs, id)
		}
	}

	services, cleanup, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := services.Analytics.ProjectProgress(cmd.Context(), flagProject, templateIDs)
	if err != nil {
		return MapError(fmt.Errorf("compute progress: %w", err))
	}

	if flagProgressJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Project %s\n", flagProject)
	fmt.Printf("Tasks:   %d%% (%d/%d done)\n", report.TaskCompletion, report.DoneTasks, report.TotalTasks)
	fmt.Printf("Phases:  %d%% (%d/%d resolved)\n", report.PhaseCompletion, report.ResolvedPhases, report.TotalPhases)
	fmt.Printf("Overall: %d%% (%s)\n", report.Overall, report.Label)
	fmt.Printf("Risk:    %s\n", report.Risk)
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
	return nil
}

func init() {
	progressCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Student project id")
	progressCmd.Flags().StringVar(&flagTemplates, "templates", "", "Comma-separated phase template ids of the master project")
	progressCmd.Flags().BoolVar(&flagProgressJSON, "json", false, "Output the report as JSON")

	RootCmd.AddCommand(progressCmd)
}
