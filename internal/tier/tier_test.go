package tier

import "testing"

func TestRankOrdering(t *testing.T) {
	if !(Rank(Standard) < Rank(Advanced) && Rank(Advanced) < Rank(Expert)) {
		t.Fatalf("tier ranks not ordered: standard=%d advanced=%d expert=%d",
			Rank(Standard), Rank(Advanced), Rank(Expert))
	}
}

func TestStandardPinsReminderInterval(t *testing.T) {
	l := LimitsFor(Standard)
	if l.ReminderConfigurable {
		t.Fatal("standard tier must not be configurable")
	}
	if l.ReminderFixedInterval != 10 {
		t.Fatalf("standard fixed interval = %d, want 10", l.ReminderFixedInterval)
	}
}

func TestAdvancedHasUpgradeThreshold(t *testing.T) {
	l := LimitsFor(Advanced)
	if !l.ReminderConfigurable {
		t.Fatal("advanced tier must be configurable")
	}
	if l.UpgradeThreshold != 20 {
		t.Fatalf("advanced upgrade threshold = %d, want 20", l.UpgradeThreshold)
	}
	if l.UpgradeThreshold >= l.ReminderMaxInterval {
		t.Fatalf("upgrade threshold %d should be below max %d", l.UpgradeThreshold, l.ReminderMaxInterval)
	}
}

func TestExpertHasNoUpgradeThreshold(t *testing.T) {
	l := LimitsFor(Expert)
	if !l.ReminderConfigurable {
		t.Fatal("expert tier must be configurable")
	}
	if l.UpgradeThreshold != 0 {
		t.Fatalf("expert should have no upgrade threshold, got %d", l.UpgradeThreshold)
	}
}

func TestUnknownTierPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown tier")
		}
	}()
	LimitsFor(Tier("platinum"))
}

func TestValid(t *testing.T) {
	for _, tr := range []Tier{Standard, Advanced, Expert} {
		if !tr.Valid() {
			t.Fatalf("%s should be valid", tr)
		}
	}
	if Tier("gold").Valid() {
		t.Fatal("gold should not be valid")
	}
}
