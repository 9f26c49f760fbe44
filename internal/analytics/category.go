package analytics

// OverdueCategory is an ordered severity classification of an invoice's
// days-overdue count.
type OverdueCategory string

const (
	CategoryNotDue  OverdueCategory = "NOT_DUE"
	CategoryNotify  OverdueCategory = "NOTIFY"
	CategoryClaim   OverdueCategory = "CLAIM"
	CategoryCourt   OverdueCategory = "COURT"
	CategoryBadDebt OverdueCategory = "BAD_DEBT"
)

// categoryBound maps an inclusive upper bound on days overdue to a category.
// Bounds are evaluated in order; anything beyond the last bound is bad debt.
// This table is the single source of truth for the thresholds; call sites
// never restate the day counts.
var categoryBounds = []struct {
	maxDays  int
	category OverdueCategory
}{
	{0, CategoryNotDue},
	{30, CategoryNotify},
	{90, CategoryClaim},
	{1095, CategoryCourt},
}

var recommendations = map[OverdueCategory]string{
	CategoryNotDue:  "Due date not yet reached",
	CategoryNotify:  "Notify debtor",
	CategoryClaim:   "Send formal claim",
	CategoryCourt:   "File suit (only after claim)",
	CategoryBadDebt: "Recognize as bad debt / write off",
}

var categoryRank = map[OverdueCategory]int{
	CategoryNotDue:  0,
	CategoryNotify:  1,
	CategoryClaim:   2,
	CategoryCourt:   3,
	CategoryBadDebt: 4,
}

// Categorize maps a days-overdue count to its overdue category. The mapping
// is total and monotonic in severity.
func Categorize(daysOverdue int) OverdueCategory {
	for _, bound := range categoryBounds {
		if daysOverdue <= bound.maxDays {
			return bound.category
		}
	}
	return CategoryBadDebt
}

// Recommendation returns the fixed collection recommendation for a category.
func Recommendation(category OverdueCategory) string {
	return recommendations[category]
}

// Severity returns the category's ordinal position, NOT_DUE being 0.
func (c OverdueCategory) Severity() int {
	return categoryRank[c]
}
