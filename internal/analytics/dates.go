package analytics

import (
	"math"
	"time"
)

// DueState classifies a due date relative to the evaluation date.
type DueState string

const (
	DueToday   DueState = "TODAY"
	DueFuture  DueState = "FUTURE"
	DueOverdue DueState = "OVERDUE"
)

// normalizeDate strips the time-of-day component in the date's own location.
// Every aging computation shares this rule so that an invoice due today is
// never counted as overdue.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysOverdue returns the number of whole days the due date lies behind the
// evaluation date. Positive means overdue, zero or negative means not yet due.
func DaysOverdue(dueDate, asOf time.Time) int {
	diff := normalizeDate(asOf).Sub(normalizeDate(dueDate))
	return int(math.Floor(diff.Hours() / 24))
}

// DaysUntilDue is the negation convention: positive means time remaining,
// negative means overdue. Note it rounds where DaysOverdue floors; the
// asymmetry is intentional and pinned by tests.
func DaysUntilDue(dueDate, asOf time.Time) int {
	diff := normalizeDate(dueDate).Sub(normalizeDate(asOf))
	return int(math.Round(diff.Hours() / 24))
}

// DueStatus reports whether the due date is today, in the future, or past.
func DueStatus(dueDate, asOf time.Time) DueState {
	due := normalizeDate(dueDate)
	at := normalizeDate(asOf)
	switch {
	case due.Equal(at):
		return DueToday
	case due.After(at):
		return DueFuture
	default:
		return DueOverdue
	}
}
