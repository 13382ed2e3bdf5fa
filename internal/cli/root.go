// Package cli implements the convoclaw command tree.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/ConvoClaw/ConvoClaw/internal/cli.version=1.2.3"
	version = "0.3.0"
	logo    = "\n" +
		"   ____                     ____ _\n" +
		"  / ___|___  _ ____   _____/ ___| | __ ___      __\n" +
		" | |   / _ \\| '_ \\ \\ / / _ \\ |   | |/ _` \\ \\ /\\ / /\n" +
		" | |__| (_) | | | \\ V / (_) | |___| | (_| |\\ V  V /\n" +
		"  \\____\\___/|_| |_|\\_/ \\___/ \\____|_|\\__,_| \\_/\\_/\n"
)

var rootCmd = &cobra.Command{
	Use:   "convoclaw",
	Short: "ConvoClaw - Conversation Timeline Scheduler",
	Long:  color.CyanString(logo) + "\nTurn-driven summary, consolidation, and reminder scheduling for chat conversations.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replayCmd)
}
