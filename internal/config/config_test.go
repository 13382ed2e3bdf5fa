package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
)

func TestConfigPathExplicitOverride(t *testing.T) {
	t.Setenv("CONVOCLAW_CONFIG", "/tmp/custom/config.json")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if path != "/tmp/custom/config.json" {
		t.Fatalf("path = %s, want explicit override", path)
	}
}

func TestConfigPathHomeOverride(t *testing.T) {
	t.Setenv("CONVOCLAW_CONFIG", "")
	t.Setenv("CONVOCLAW_HOME", "/srv/claw")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if path != filepath.Join("/srv/claw", ConfigDir, ConfigFile) {
		t.Fatalf("unexpected path %s", path)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONVOCLAW_HOME", t.TempDir())
	t.Setenv("CONVOCLAW_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tier != "standard" {
		t.Fatalf("default tier = %s, want standard", cfg.Tier)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CONVOCLAW_HOME", home)
	t.Setenv("CONVOCLAW_CONFIG", "")

	dir := filepath.Join(home, ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"tier":"advanced","timeline":{"reminderInterval":15}}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONVOCLAW_TIMELINE_SUMMARY_INTERVAL", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tier != "advanced" {
		t.Fatalf("tier = %s, want advanced from file", cfg.Tier)
	}
	if cfg.Timeline.ReminderInterval != 15 {
		t.Fatalf("reminder interval = %d, want 15 from file", cfg.Timeline.ReminderInterval)
	}
	if cfg.Timeline.SummaryInterval != 8 {
		t.Fatalf("summary interval = %d, want 8 from env", cfg.Timeline.SummaryInterval)
	}
}

func TestJournalPathDefaultedWhenEnabled(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CONVOCLAW_HOME", home)
	t.Setenv("CONVOCLAW_CONFIG", "")
	t.Setenv("CONVOCLAW_JOURNAL_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := filepath.Join(home, ConfigDir, "journal.db")
	if cfg.Journal.Path != want {
		t.Fatalf("journal path = %s, want %s", cfg.Journal.Path, want)
	}
}

func TestTimelineConfigSettingsResolution(t *testing.T) {
	off := false
	tc := TimelineConfig{
		SummaryInterval:        9,
		SummaryFormat:          "BULLET",
		EnableTimelineReminder: &off,
	}
	s := tc.Settings()
	if s.SummaryInterval != 9 {
		t.Fatalf("summary interval = %d, want 9", s.SummaryInterval)
	}
	if s.SummaryFormat != summarize.FormatBullet {
		t.Fatalf("format = %s, want bullet", s.SummaryFormat)
	}
	if s.EnableTimelineReminder {
		t.Fatal("reminder toggle not applied")
	}
	// Unset fields keep defaults.
	if s.ConsolidationInterval != 30 {
		t.Fatalf("consolidation interval = %d, want default 30", s.ConsolidationInterval)
	}
	if !s.EnableConversationSummary {
		t.Fatal("summary toggle should default to enabled")
	}
}

func TestSettingsBadFormatFallsBack(t *testing.T) {
	s := TimelineConfig{SummaryFormat: "haiku"}.Settings()
	if s.SummaryFormat != summarize.FormatParagraph {
		t.Fatalf("format = %s, want paragraph fallback", s.SummaryFormat)
	}
}
