package timeline

import (
	"time"

	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
)

// Summary covers an inclusive message-index range of one conversation.
type Summary struct {
	ID                  string           `json:"id"`
	StartIndex          int              `json:"start_index"`
	EndIndex            int              `json:"end_index"`
	Text                string           `json:"text"`
	Format              summarize.Format `json:"format"`
	CreatedAt           time.Time        `json:"created_at"`
	IsConsolidated      bool             `json:"is_consolidated"`
	ConsolidatedFromIDs []string         `json:"consolidated_from_ids,omitempty"`
}

// Reminder is the progress reminder surfaced to the user. At most one
// active reminder exists per conversation.
type Reminder struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	TriggerInterval int       `json:"trigger_interval"`  // turns
	LastTriggeredAt int       `json:"last_triggered_at"` // message index
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Settings holds the timeline scheduling knobs. Raw user requests are
// clamped against the tier policy table before being stored here; a
// Settings value on a Timeline is always effective (no optional fields,
// no unresolved defaults).
type Settings struct {
	SummaryInterval           int              `json:"summary_interval"`
	ReminderInterval          int              `json:"reminder_interval"`
	ConsolidationInterval     int              `json:"consolidation_interval"`
	SummaryFormat             summarize.Format `json:"summary_format"`
	EnableTimelineReminder    bool             `json:"enable_timeline_reminder"`
	EnableConversationSummary bool             `json:"enable_conversation_summary"`
}

// DefaultSettings returns the scheduling defaults applied before any user
// request is considered.
func DefaultSettings() Settings {
	return Settings{
		SummaryInterval:           12,
		ReminderInterval:          10,
		ConsolidationInterval:     30,
		SummaryFormat:             summarize.FormatParagraph,
		EnableTimelineReminder:    true,
		EnableConversationSummary: true,
	}
}

// Timeline is the per-conversation scheduling aggregate. It is owned by
// the conversation it belongs to and mutated in place by the orchestrator;
// the caller serializes invocations per conversation, so no internal
// locking is done.
type Timeline struct {
	ConversationID string      `json:"conversation_id"`
	UserID         string      `json:"user_id"`
	Summaries      []*Summary  `json:"summaries"`
	Reminders      []*Reminder `json:"reminders"`
	Settings       Settings    `json:"settings"`
	// LastSummaryIndex is the highest message index covered by a
	// non-consolidated summary. -1 means no summary yet. Monotonically
	// non-decreasing over the timeline's lifetime.
	LastSummaryIndex int `json:"last_summary_index"`
	// LastProcessedIndex is the highest message index ever handed to
	// ProcessNewMessage. -1 before the first call. Used to fail fast on
	// out-of-order invocations; re-issuing the same index is allowed.
	LastProcessedIndex int `json:"last_processed_index"`
}

// NewTimeline creates an empty timeline with default settings.
func NewTimeline(conversationID, userID string) *Timeline {
	return &Timeline{
		ConversationID:   conversationID,
		UserID:           userID,
		Summaries:        []*Summary{},
		Reminders:        []*Reminder{},
		Settings:           DefaultSettings(),
		LastSummaryIndex:   -1,
		LastProcessedIndex: -1,
	}
}

// ActiveReminder returns the active reminder, or nil.
func (tl *Timeline) ActiveReminder() *Reminder {
	for _, r := range tl.Reminders {
		if r.IsActive {
			return r
		}
	}
	return nil
}

// UnconsolidatedSummaries returns summaries not yet folded into a
// consolidated summary, in insertion order.
func (tl *Timeline) UnconsolidatedSummaries() []*Summary {
	var out []*Summary
	for _, s := range tl.Summaries {
		if !s.IsConsolidated {
			out = append(out, s)
		}
	}
	return out
}

// LatestSummaryText returns the text of the most recent summary, or "".
func (tl *Timeline) LatestSummaryText() string {
	if len(tl.Summaries) == 0 {
		return ""
	}
	return tl.Summaries[len(tl.Summaries)-1].Text
}
