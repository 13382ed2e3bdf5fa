package timeline

// Trigger predicates. All are pure index arithmetic: the unit of progress
// is a conversation turn, not wall-clock time, so the caller drives
// scheduling by supplying the current message index on every invocation.

// SummaryDue reports whether a new summary should be generated.
// lastSummaryIndex starts at -1, so the first summary fires once
// currentIndex >= summaryInterval-1.
func SummaryDue(currentIndex, lastSummaryIndex, summaryInterval int) bool {
	if summaryInterval <= 0 {
		return false
	}
	return currentIndex-lastSummaryIndex >= summaryInterval
}

// ConsolidationDue reports whether a consolidation pass should be
// attempted at currentIndex.
func ConsolidationDue(currentIndex, consolidationInterval int) bool {
	if consolidationInterval <= 0 {
		return false
	}
	return currentIndex > 0 && currentIndex%consolidationInterval == 0
}

// ReminderDue reports whether the reminder should fire. hasActive is false
// on the first-fire case, which is always due regardless of currentIndex.
func ReminderDue(currentIndex, lastTriggeredAt, reminderInterval int, hasActive bool) bool {
	if !hasActive {
		return true
	}
	if reminderInterval <= 0 {
		return false
	}
	return currentIndex-lastTriggeredAt >= reminderInterval
}
