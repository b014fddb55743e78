// Package cli exposes the phase review workflow on the command line.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Persistent flags shared by every command.
var (
	flagConfig  string
	flagActorID string
	flagRole    string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "phasetrack",
	Version: Version,
	Short:   "Phase review and progress analytics for student projects",
	Long: `PhaseTrack drives the review workflow of student project phases:
students start phases and answer revision requests, teachers review,
approve, decline or request revisions, and the progress command derives
completion and risk figures from the current phase and task data.`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the phasetrack config file")
	RootCmd.PersistentFlags().StringVar(&flagActorID, "actor", "", "Acting user id")
	RootCmd.PersistentFlags().StringVar(&flagRole, "role", "", "Acting role (student, teacher, admin)")
}
