// Package config provides configuration types and loading for convoclaw.
package config

import (
	"time"

	"github.com/ConvoClaw/ConvoClaw/internal/remote"
	"github.com/ConvoClaw/ConvoClaw/internal/timeline"
)

// Config is the root configuration struct.
type Config struct {
	Tier     string         `json:"tier" envconfig:"TIER"`
	Remote   remote.Config  `json:"remote"`
	Journal  JournalConfig  `json:"journal"`
	Timeline TimelineConfig `json:"timeline"`
}

// JournalConfig configures the optional sqlite decision journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled" envconfig:"ENABLED"`
	Path    string `json:"path" envconfig:"PATH"`
}

// TimelineConfig holds the requested (pre-clamp) scheduling settings.
// These are resolved into effective settings per tier at orchestration
// time; they are never consumed raw.
type TimelineConfig struct {
	SummaryInterval           int    `json:"summaryInterval" envconfig:"SUMMARY_INTERVAL"`
	ReminderInterval          int    `json:"reminderInterval" envconfig:"REMINDER_INTERVAL"`
	ConsolidationInterval     int    `json:"consolidationInterval" envconfig:"CONSOLIDATION_INTERVAL"`
	SummaryFormat             string `json:"summaryFormat" envconfig:"SUMMARY_FORMAT"`
	EnableTimelineReminder    *bool  `json:"enableTimelineReminder,omitempty" envconfig:"ENABLE_REMINDER"`
	EnableConversationSummary *bool  `json:"enableConversationSummary,omitempty" envconfig:"ENABLE_SUMMARY"`
}

// Settings converts the requested configuration into timeline.Settings,
// resolving the optional toggles to their defaults when unset.
func (tc TimelineConfig) Settings() timeline.Settings {
	s := timeline.DefaultSettings()
	if tc.SummaryInterval > 0 {
		s.SummaryInterval = tc.SummaryInterval
	}
	if tc.ReminderInterval > 0 {
		s.ReminderInterval = tc.ReminderInterval
	}
	if tc.ConsolidationInterval > 0 {
		s.ConsolidationInterval = tc.ConsolidationInterval
	}
	if tc.SummaryFormat != "" {
		s.SummaryFormat = summarizeFormat(tc.SummaryFormat)
	}
	if tc.EnableTimelineReminder != nil {
		s.EnableTimelineReminder = *tc.EnableTimelineReminder
	}
	if tc.EnableConversationSummary != nil {
		s.EnableConversationSummary = *tc.EnableConversationSummary
	}
	return s
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Tier: "standard",
		Remote: remote.Config{
			Timeout: 15 * time.Second,
		},
		Journal: JournalConfig{
			Enabled: false,
		},
	}
}
