package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ConvoClaw/ConvoClaw/internal/convo"
	"github.com/ConvoClaw/ConvoClaw/internal/journal"
	"github.com/ConvoClaw/ConvoClaw/internal/remote"
	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
	"github.com/ConvoClaw/ConvoClaw/internal/tier"
)

// RemoteAPI is the collaborator boundary to the remote timeline endpoint.
// *remote.Client satisfies it; tests substitute fakes.
type RemoteAPI interface {
	GenerateSummary(ctx context.Context, userID, conversationID string, msgs []convo.Message, startIndex, endIndex int, format summarize.Format) (*remote.SummaryRecord, error)
	SetReminder(ctx context.Context, userID, conversationID, content string, messageCount int) (*remote.ReminderRecord, error)
	CheckReminder(ctx context.Context, userID, conversationID string, currentIndex int) (bool, error)
	FetchTimeline(ctx context.Context, userID, conversationID string) (*remote.TimelineRecord, error)
}

// Service is the timeline orchestrator. It holds no per-conversation
// state between calls; everything lives on the Timeline aggregate.
type Service struct {
	remote  RemoteAPI
	journal *journal.Journal
}

// NewService creates the orchestrator. client may be nil (remote path
// unavailable, local fallback only) and jrnl may be nil (no audit log).
func NewService(client *remote.Client, jrnl *journal.Journal) *Service {
	svc := &Service{journal: jrnl}
	if client != nil {
		svc.remote = client
	}
	return svc
}

// NewServiceWithRemote creates the orchestrator with an arbitrary RemoteAPI.
func NewServiceWithRemote(api RemoteAPI, jrnl *journal.Journal) *Service {
	return &Service{remote: api, journal: jrnl}
}

// Result reports what ProcessNewMessage decided on one turn.
type Result struct {
	ShouldTriggerReminder bool
	SummaryCreated        *Summary
	UsedFallback          bool // summary came from the local summarizer
	Consolidated          *Summary
	ReminderCreated       bool
	RequiresUpgrade       bool
	UpgradeReason         string
}

// ProcessNewMessage runs the scheduling state machine for one new message.
// It must be called with strictly increasing currentIndex per conversation
// and calls for one conversation must not overlap; concurrent calls for
// different conversations are safe. The summary, consolidation, and
// reminder steps are isolated: a failure in one never prevents the next
// from running, and remote failures are recovered via the local path.
// Malformed arguments and out-of-set tiers panic.
func (s *Service) ProcessNewMessage(ctx context.Context, tl *Timeline, conv *convo.Conversation, currentIndex int, t tier.Tier) Result {
	if tl == nil {
		panic("timeline: ProcessNewMessage called with nil timeline")
	}
	if conv == nil {
		panic("timeline: ProcessNewMessage called with nil conversation")
	}
	if currentIndex < 0 || currentIndex >= len(conv.Messages) {
		panic(fmt.Sprintf("timeline: message index %d out of range (%d messages)", currentIndex, len(conv.Messages)))
	}
	if currentIndex < tl.LastSummaryIndex {
		panic(fmt.Sprintf("timeline: message index %d precedes last summary index %d", currentIndex, tl.LastSummaryIndex))
	}
	if currentIndex < tl.LastProcessedIndex {
		panic(fmt.Sprintf("timeline: message index %d precedes last processed index %d", currentIndex, tl.LastProcessedIndex))
	}
	tl.LastProcessedIndex = currentIndex

	var res Result

	// Step 1: resolve effective settings against the tier policy table.
	decision := ResolveSettings(tl.Settings, t)
	tl.Settings = decision.Effective
	eff := decision.Effective
	if decision.RequiresUpgrade {
		res.RequiresUpgrade = true
		res.UpgradeReason = decision.Reason
		s.record(tl, journal.DecisionUpgradeRequired, currentIndex, decision.Reason)
	}

	// Step 2: summary generation.
	if eff.EnableConversationSummary && SummaryDue(currentIndex, tl.LastSummaryIndex, eff.SummaryInterval) {
		sum, fallback := s.generateSummary(ctx, tl, conv, tl.LastSummaryIndex+1, currentIndex, eff.SummaryFormat)
		tl.Summaries = append(tl.Summaries, sum)
		tl.LastSummaryIndex = currentIndex
		res.SummaryCreated = sum
		res.UsedFallback = fallback
		kind := journal.DecisionSummaryCreated
		if fallback {
			kind = journal.DecisionSummaryFallback
		}
		s.record(tl, kind, currentIndex, fmt.Sprintf("range [%d,%d]", sum.StartIndex, sum.EndIndex))
	}

	// Step 3: consolidation.
	if ConsolidationDue(currentIndex, eff.ConsolidationInterval) {
		eligible := tl.UnconsolidatedSummaries()
		if len(eligible) >= 3 {
			cons := Consolidate(eligible)
			tl.Summaries = append(tl.Summaries, cons)
			for _, in := range eligible {
				in.IsConsolidated = true
			}
			res.Consolidated = cons
			s.record(tl, journal.DecisionConsolidation, currentIndex,
				fmt.Sprintf("%d summaries into range [%d,%d]", len(eligible), cons.StartIndex, cons.EndIndex))
		}
	}

	// Step 4: reminder.
	if eff.EnableTimelineReminder && tier.LimitsFor(t).ReminderConfigurable {
		s.evaluateReminder(ctx, tl, currentIndex, eff, &res)
	}

	return res
}

// generateSummary tries the remote path for the inclusive range
// [startIndex, endIndex] and falls back to the local summarizer. The
// returned bool is true when the local path was used.
func (s *Service) generateSummary(ctx context.Context, tl *Timeline, conv *convo.Conversation, startIndex, endIndex int, format summarize.Format) (*Summary, bool) {
	msgs := conv.Range(startIndex, endIndex)

	if s.remote != nil {
		rec, err := s.remote.GenerateSummary(ctx, tl.UserID, tl.ConversationID, msgs, startIndex, endIndex, format)
		if err == nil {
			return &Summary{
				ID:         nonEmptyID(rec.ID),
				StartIndex: startIndex,
				EndIndex:   endIndex,
				Text:       rec.Summary,
				Format:     format,
				CreatedAt:  orNow(rec.CreatedAt),
			}, false
		}
		slog.Warn("remote summary failed, using local fallback",
			"conversation", tl.ConversationID, "range_start", startIndex, "range_end", endIndex, "error", err)
	}

	return &Summary{
		ID:         uuid.NewString(),
		StartIndex: startIndex,
		EndIndex:   endIndex,
		Text:       summarize.Summarize(msgs, format),
		Format:     format,
		CreatedAt:  time.Now(),
	}, true
}

// evaluateReminder creates the reminder lazily on first fire, otherwise
// updates LastTriggeredAt when due. The remote check is authoritative when
// reachable; local index arithmetic decides otherwise.
func (s *Service) evaluateReminder(ctx context.Context, tl *Timeline, currentIndex int, eff Settings, res *Result) {
	active := tl.ActiveReminder()
	if !ReminderDue(currentIndex, lastTriggered(active), eff.ReminderInterval, active != nil) {
		return
	}

	if active == nil {
		content := tl.LatestSummaryText()
		if content == "" {
			content = "Conversation started. Progress reminders are active."
		}
		rem := &Reminder{
			ID:              uuid.NewString(),
			Content:         content,
			TriggerInterval: eff.ReminderInterval,
			LastTriggeredAt: currentIndex,
			IsActive:        true,
			CreatedAt:       time.Now(),
		}
		if s.remote != nil {
			if rec, err := s.remote.SetReminder(ctx, tl.UserID, tl.ConversationID, content, eff.ReminderInterval); err == nil {
				rem.ID = nonEmptyID(rec.ID)
				rem.CreatedAt = orNow(rec.CreatedAt)
			} else {
				slog.Warn("remote reminder set failed, keeping local reminder",
					"conversation", tl.ConversationID, "error", err)
			}
		}
		tl.Reminders = append(tl.Reminders, rem)
		res.ReminderCreated = true
		s.record(tl, journal.DecisionReminderCreated, currentIndex, "")
		return
	}

	due := true
	if s.remote != nil {
		if remoteDue, err := s.remote.CheckReminder(ctx, tl.UserID, tl.ConversationID, currentIndex); err == nil {
			due = remoteDue
		} else {
			slog.Warn("remote reminder check failed, using local decision",
				"conversation", tl.ConversationID, "error", err)
		}
	}
	if !due {
		return
	}
	active.LastTriggeredAt = currentIndex
	res.ShouldTriggerReminder = true
	s.record(tl, journal.DecisionReminderTriggered, currentIndex, "")
}

// Rehydrate loads the stored timeline from the remote endpoint and merges
// the persisted progress into tl. Missing or unreachable remote state is
// not an error; the local aggregate simply stays as-is.
func (s *Service) Rehydrate(ctx context.Context, tl *Timeline) error {
	if s.remote == nil {
		return nil
	}
	rec, err := s.remote.FetchTimeline(ctx, tl.UserID, tl.ConversationID)
	if err != nil {
		slog.Warn("timeline rehydrate failed", "conversation", tl.ConversationID, "error", err)
		return nil
	}
	if rec.LastSummaryIndex > tl.LastSummaryIndex {
		tl.LastSummaryIndex = rec.LastSummaryIndex
	}
	known := map[string]bool{}
	for _, sum := range tl.Summaries {
		known[sum.ID] = true
	}
	for _, r := range rec.Summaries {
		if r.ID == "" || known[r.ID] {
			continue
		}
		tl.Summaries = append(tl.Summaries, &Summary{
			ID:             r.ID,
			StartIndex:     r.StartIndex,
			EndIndex:       r.EndIndex,
			Text:           r.Summary,
			Format:         validateFormat(tl.Settings.SummaryFormat),
			CreatedAt:      orNow(r.CreatedAt),
			IsConsolidated: r.IsConsolidated,
		})
	}
	return nil
}

func (s *Service) record(tl *Timeline, kind string, messageIndex int, detail string) {
	if err := s.journal.Record(tl.ConversationID, tl.UserID, kind, messageIndex, detail); err != nil {
		slog.Debug("journal write failed", "kind", kind, "error", err)
	}
}

func lastTriggered(r *Reminder) int {
	if r == nil {
		return -1
	}
	return r.LastTriggeredAt
}

func nonEmptyID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func orNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now()
	}
	return ts
}
