package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ConvoClaw/ConvoClaw/internal/config"
	"github.com/ConvoClaw/ConvoClaw/internal/convo"
	"github.com/ConvoClaw/ConvoClaw/internal/journal"
	"github.com/ConvoClaw/ConvoClaw/internal/remote"
	"github.com/ConvoClaw/ConvoClaw/internal/tier"
	"github.com/ConvoClaw/ConvoClaw/internal/timeline"
)

var (
	replayConversationID string
	replayUserID         string
)

var replayCmd = &cobra.Command{
	Use:   "replay <transcript.jsonl>",
	Short: "Feed a recorded conversation through the timeline scheduler",
	Long: "Replays a JSONL transcript (one {role, content} message per line) turn by turn\n" +
		"through the scheduler and prints every summary, consolidation, and reminder decision.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		t := tier.Tier(cfg.Tier)
		if !t.Valid() {
			return fmt.Errorf("invalid tier %q in config (standard|advanced|expert)", cfg.Tier)
		}

		conv, err := convo.LoadTranscript(args[0], replayConversationID, replayUserID)
		if err != nil {
			return err
		}
		if len(conv.Messages) == 0 {
			return fmt.Errorf("transcript %s contains no messages", args[0])
		}

		var jrnl *journal.Journal
		if cfg.Journal.Enabled {
			jrnl, err = journal.Open(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer jrnl.Close()
		}

		svc := timeline.NewService(remote.NewClient(cfg.Remote), jrnl)
		tl := timeline.NewTimeline(conv.ID, conv.UserID)
		tl.Settings = cfg.Timeline.Settings()

		ctx := context.Background()
		if err := svc.Rehydrate(ctx, tl); err != nil {
			return err
		}

		printHeader("ConvoClaw Replay")
		fmt.Printf("Transcript: %s (%d turns, tier %s)\n\n", args[0], len(conv.Messages), t)

		// Resume past any turns already covered by rehydrated state so a
		// second replay of the same conversation does not re-feed indices
		// the stored timeline has moved beyond.
		start := tl.LastSummaryIndex + 1
		if start > 0 {
			fmt.Printf("Resuming at turn %d (stored timeline covers [0,%d])\n", start, tl.LastSummaryIndex)
		} else {
			start = 0
		}
		if start >= len(conv.Messages) {
			fmt.Println("Stored timeline already covers the whole transcript; nothing to replay.")
			return nil
		}
		for i := start; i < len(conv.Messages); i++ {
			res := svc.ProcessNewMessage(ctx, tl, conv, i, t)
			reportTurn(i, res)
		}

		fmt.Println()
		fmt.Printf("Summaries: %d (%d consolidated), last summary index: %d\n",
			len(tl.Summaries), countConsolidated(tl), tl.LastSummaryIndex)
		if r := tl.ActiveReminder(); r != nil {
			fmt.Printf("Active reminder: every %d turns, last fired at turn %d\n", r.TriggerInterval, r.LastTriggeredAt)
		}
		return nil
	},
}

func reportTurn(index int, res timeline.Result) {
	if res.SummaryCreated != nil {
		src := "remote"
		if res.UsedFallback {
			src = "local"
		}
		fmt.Printf("turn %3d  %s summary [%d,%d] (%s)\n", index,
			color.GreenString("✓"), res.SummaryCreated.StartIndex, res.SummaryCreated.EndIndex, src)
	}
	if res.Consolidated != nil {
		fmt.Printf("turn %3d  %s consolidated %d summaries into [%d,%d]\n", index,
			color.CyanString("≡"), len(res.Consolidated.ConsolidatedFromIDs),
			res.Consolidated.StartIndex, res.Consolidated.EndIndex)
	}
	if res.ReminderCreated {
		fmt.Printf("turn %3d  %s reminder created\n", index, color.YellowString("◷"))
	}
	if res.ShouldTriggerReminder {
		fmt.Printf("turn %3d  %s reminder fired\n", index, color.YellowString("!"))
	}
	if res.RequiresUpgrade {
		fmt.Printf("turn %3d  %s %s\n", index, color.RedString("↑"), res.UpgradeReason)
	}
}

func countConsolidated(tl *timeline.Timeline) int {
	n := 0
	for _, s := range tl.Summaries {
		if s.IsConsolidated && len(s.ConsolidatedFromIDs) > 0 {
			n++
		}
	}
	return n
}

func init() {
	replayCmd.Flags().StringVar(&replayConversationID, "conversation", "replay", "conversation id to use")
	replayCmd.Flags().StringVar(&replayUserID, "user", defaultUser(), "user id to use")
}

func defaultUser() string {
	if u := os.Getenv("USER"); strings.TrimSpace(u) != "" {
		return u
	}
	return "local"
}
