package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ConvoClaw/ConvoClaw/internal/config"
	"github.com/ConvoClaw/ConvoClaw/internal/tier"
	"github.com/ConvoClaw/ConvoClaw/internal/timeline"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("ConvoClaw Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective timeline settings for the configured tier",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("ConvoClaw Status")

		cfg, err := config.Load()
		if err != nil {
			fmt.Println(color.RedString("Config: unable to load: %v", err))
			os.Exit(1)
		}

		t := tier.Tier(cfg.Tier)
		if !t.Valid() {
			fmt.Println(color.RedString("Tier:   %q is not a valid tier (standard|advanced|expert)", cfg.Tier))
			os.Exit(1)
		}

		decision := timeline.ResolveSettings(cfg.Timeline.Settings(), t)
		eff := decision.Effective

		fmt.Printf("Tier:                   %s (rank %d)\n", t, tier.Rank(t))
		fmt.Printf("Summary interval:       %d turns\n", eff.SummaryInterval)
		fmt.Printf("Reminder interval:      %d turns\n", eff.ReminderInterval)
		fmt.Printf("Consolidation interval: %d turns\n", eff.ConsolidationInterval)
		fmt.Printf("Summary format:         %s\n", eff.SummaryFormat)
		fmt.Printf("Summaries enabled:      %v\n", eff.EnableConversationSummary)
		fmt.Printf("Reminders enabled:      %v\n", eff.EnableTimelineReminder)

		if decision.Clamped {
			fmt.Println(color.YellowString("Clamped: %s", decision.Reason))
		}
		if decision.RequiresUpgrade {
			fmt.Println(color.YellowString("Upgrade required: %s", decision.Reason))
		}
		if cfg.Remote.URL != "" {
			fmt.Printf("Remote endpoint:        %s\n", cfg.Remote.URL)
		} else {
			fmt.Println("Remote endpoint:        (none, local fallback only)")
		}
		if cfg.Journal.Enabled {
			fmt.Printf("Decision journal:       %s\n", cfg.Journal.Path)
		}
	},
}
