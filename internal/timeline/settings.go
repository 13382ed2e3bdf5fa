package timeline

import (
	"fmt"

	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
	"github.com/ConvoClaw/ConvoClaw/internal/tier"
)

// SettingsDecision is the outcome of resolving requested settings against
// the tier policy table. A disallowed request is not an error: the caller
// uses Reason to show an upgrade prompt instead of failing.
type SettingsDecision struct {
	Effective       Settings
	Clamped         bool
	RequiresUpgrade bool
	Reason          string
}

// ResolveSettings clamps requested settings against the policy table for t
// and returns the effective settings plus the policy decision. This is the
// single place where optionality is resolved: zero or negative intervals
// and an empty format fall back to defaults before clamping, so the
// trigger predicates never see an unresolved value.
// Panics on an unknown tier.
func ResolveSettings(requested Settings, t tier.Tier) SettingsDecision {
	limits := tier.LimitsFor(t)

	eff := requested
	defaults := DefaultSettings()
	if eff.SummaryInterval <= 0 {
		eff.SummaryInterval = defaults.SummaryInterval
	}
	if eff.ReminderInterval <= 0 {
		eff.ReminderInterval = defaults.ReminderInterval
	}
	if eff.ConsolidationInterval <= 0 {
		eff.ConsolidationInterval = defaults.ConsolidationInterval
	}
	if !eff.SummaryFormat.Valid() {
		eff.SummaryFormat = defaults.SummaryFormat
	}

	d := SettingsDecision{}

	if !limits.ReminderConfigurable {
		// Tier pins the reminder interval; the request is ignored.
		if eff.ReminderInterval != limits.ReminderFixedInterval {
			d.Clamped = true
			d.Reason = fmt.Sprintf("reminder interval fixed at %d turns for %s tier", limits.ReminderFixedInterval, t)
		}
		eff.ReminderInterval = limits.ReminderFixedInterval
	} else {
		if limits.UpgradeThreshold > 0 && eff.ReminderInterval > limits.UpgradeThreshold {
			// The request is valid for a higher tier; surface the upgrade
			// decision and keep the interval at the threshold.
			d.RequiresUpgrade = true
			d.Reason = fmt.Sprintf("reminder interval above %d turns requires an upgrade on %s tier", limits.UpgradeThreshold, t)
			eff.ReminderInterval = limits.UpgradeThreshold
			d.Clamped = true
		}
		if eff.ReminderInterval > limits.ReminderMaxInterval {
			d.Clamped = true
			if d.Reason == "" {
				d.Reason = fmt.Sprintf("reminder interval clamped to %d turns for %s tier", limits.ReminderMaxInterval, t)
			}
			eff.ReminderInterval = limits.ReminderMaxInterval
		}
	}

	d.Effective = eff
	return d
}

// validateFormat guards summary formats arriving from the remote endpoint.
func validateFormat(f summarize.Format) summarize.Format {
	if f.Valid() {
		return f
	}
	return DefaultSettings().SummaryFormat
}
