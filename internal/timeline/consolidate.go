package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
)

// Consolidate merges an ordered run of unconsolidated summaries into one
// higher-level summary spanning the union of their ranges. Input must be
// non-empty and all unconsolidated; violations are caller bugs and panic.
// The inputs themselves are not mutated here; the orchestrator flips
// IsConsolidated after appending the result.
func Consolidate(summaries []*Summary) *Summary {
	if len(summaries) == 0 {
		panic("timeline: consolidate called with no summaries")
	}
	for _, s := range summaries {
		if s.IsConsolidated {
			panic(fmt.Sprintf("timeline: consolidate input %s already consolidated", s.ID))
		}
	}
	if len(summaries) == 1 {
		return summaries[0]
	}

	start := summaries[0].StartIndex
	end := summaries[len(summaries)-1].EndIndex
	totalTurns := end - start + 1

	ids := make([]string, 0, len(summaries))
	var b strings.Builder
	fmt.Fprintf(&b, "Consolidated summary of turns %d-%d (%d turns total):\n", start, end, totalTurns)
	for i, s := range summaries {
		ids = append(ids, s.ID)
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(s.Text))
	}

	return &Summary{
		ID:                  uuid.NewString(),
		StartIndex:          start,
		EndIndex:            end,
		Text:                strings.TrimSpace(b.String()),
		Format:              summarize.FormatParagraph,
		CreatedAt:           time.Now(),
		IsConsolidated:      true,
		ConsolidatedFromIDs: ids,
	}
}
