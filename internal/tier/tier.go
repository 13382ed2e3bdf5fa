// Package tier provides subscription tier identities and the policy table
// that bounds user-configurable timeline settings.
package tier

import "fmt"

// Tier is the caller's subscription level. The set is closed: any value
// outside the three constants is a caller bug.
type Tier string

const (
	Standard Tier = "standard"
	Advanced Tier = "advanced"
	Expert   Tier = "expert"
)

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	switch t {
	case Standard, Advanced, Expert:
		return true
	}
	return false
}

// Rank returns a total ordering over tiers: standard < advanced < expert.
// Panics on an unknown tier.
func Rank(t Tier) int {
	switch t {
	case Standard:
		return 0
	case Advanced:
		return 1
	case Expert:
		return 2
	}
	panic(fmt.Sprintf("tier: unknown tier %q", string(t)))
}

// Limits is one policy table entry. Intervals are in turns.
type Limits struct {
	// ReminderMaxInterval is the ceiling for the reminder interval.
	ReminderMaxInterval int
	// ReminderConfigurable is false when the tier pins the reminder
	// interval to ReminderFixedInterval regardless of the request.
	ReminderConfigurable bool
	// ReminderFixedInterval is the pinned value for non-configurable tiers.
	ReminderFixedInterval int
	// UpgradeThreshold is the largest interval usable without an upgrade
	// prompt. 0 means no sub-threshold applies.
	UpgradeThreshold int
}

var limits = map[Tier]Limits{
	Standard: {
		ReminderMaxInterval:   10,
		ReminderConfigurable:  false,
		ReminderFixedInterval: 10,
	},
	Advanced: {
		ReminderMaxInterval:  50,
		ReminderConfigurable: true,
		UpgradeThreshold:     20,
	},
	Expert: {
		ReminderMaxInterval:  200,
		ReminderConfigurable: true,
	},
}

// LimitsFor returns the policy table entry for t.
// Panics on an unknown tier; the set of tiers is closed and an out-of-set
// value indicates a caller bug, not a runtime condition.
func LimitsFor(t Tier) Limits {
	l, ok := limits[t]
	if !ok {
		panic(fmt.Sprintf("tier: unknown tier %q", string(t)))
	}
	return l
}
