package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want OverdueCategory
	}{
		{-365, CategoryNotDue},
		{-1, CategoryNotDue},
		{0, CategoryNotDue},
		{1, CategoryNotify},
		{30, CategoryNotify},
		{31, CategoryClaim},
		{90, CategoryClaim},
		{91, CategoryCourt},
		{1095, CategoryCourt},
		{1096, CategoryBadDebt},
		{10000, CategoryBadDebt},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Categorize(tc.days), "days=%d", tc.days)
	}
}

func TestCategorizeIsTotalAndMonotonic(t *testing.T) {
	prev := Categorize(-10000).Severity()
	for days := -9999; days <= 10000; days++ {
		cat := Categorize(days)
		require.NotEmpty(t, cat, "days=%d", days)
		require.GreaterOrEqual(t, cat.Severity(), prev, "days=%d", days)
		prev = cat.Severity()
	}
}

func TestRecommendation(t *testing.T) {
	require.Equal(t, "Due date not yet reached", Recommendation(CategoryNotDue))
	require.Equal(t, "Notify debtor", Recommendation(CategoryNotify))
	require.Equal(t, "Send formal claim", Recommendation(CategoryClaim))
	require.Equal(t, "File suit (only after claim)", Recommendation(CategoryCourt))
	require.Equal(t, "Recognize as bad debt / write off", Recommendation(CategoryBadDebt))
}
