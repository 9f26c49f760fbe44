package analytics

import (
	"github.com/debtwatch/debtwatch/internal/receivables"
	"github.com/debtwatch/debtwatch/internal/shared"
)

// ABC tier cut points on cumulative debt percentage. Boundaries are
// inclusive: a customer landing exactly on a cut point stays in the lower
// tier.
const (
	tierACutoff = 80.0
	tierBCutoff = 95.0
)

// AbcMember is one customer inside an ABC tier, annotated with the running
// cumulative share at which it was classified.
type AbcMember struct {
	receivables.CustomerDebt
	CumulativePercentage float64 `json:"cumulative_percentage"`
}

// AbcTier groups the customers of one Pareto tier.
type AbcTier struct {
	Tier               string      `json:"tier"`
	Customers          []AbcMember `json:"customers"`
	TotalDebt          float64     `json:"total_debt"`
	DebtPercentage     float64     `json:"debt_percentage"`
	CustomerCount      int         `json:"customer_count"`
	CustomerPercentage float64     `json:"customer_percentage"`
}

// AbcReport is the full ABC (Pareto) classification of the portfolio.
// All three tiers are always present, each possibly empty.
type AbcReport struct {
	TierA          AbcTier `json:"tier_a"`
	TierB          AbcTier `json:"tier_b"`
	TierC          AbcTier `json:"tier_c"`
	TotalDebt      float64 `json:"total_debt"`
	TotalCustomers int     `json:"total_customers"`
}

// BuildAbcReport classifies customers into tiers A/B/C by cumulative share
// of total debt. The input must already be sorted by total debt descending.
//
// Tiering is purely threshold driven: a single customer holding 100% of the
// debt lands in tier C (100 > 95), never in tier A by virtue of being first.
func BuildAbcReport(customers []receivables.CustomerDebt) AbcReport {
	report := AbcReport{
		TierA:          AbcTier{Tier: "A", Customers: []AbcMember{}},
		TierB:          AbcTier{Tier: "B", Customers: []AbcMember{}},
		TierC:          AbcTier{Tier: "C", Customers: []AbcMember{}},
		TotalCustomers: len(customers),
	}
	if len(customers) == 0 {
		return report
	}

	var totalDebt float64
	for _, c := range customers {
		totalDebt += c.TotalDebt
	}

	var cumulative float64
	for _, c := range customers {
		cumulative += c.TotalDebt
		member := AbcMember{
			CustomerDebt:         c,
			CumulativePercentage: shared.Percentage(cumulative, totalDebt),
		}
		switch {
		case member.CumulativePercentage <= tierACutoff:
			appendMember(&report.TierA, member)
		case member.CumulativePercentage <= tierBCutoff:
			appendMember(&report.TierB, member)
		default:
			appendMember(&report.TierC, member)
		}
	}

	for _, tier := range []*AbcTier{&report.TierA, &report.TierB, &report.TierC} {
		tier.DebtPercentage = shared.Percentage(tier.TotalDebt, totalDebt)
		tier.CustomerPercentage = shared.Percentage(float64(tier.CustomerCount), float64(len(customers)))
		tier.TotalDebt = shared.Round2(tier.TotalDebt)
	}

	report.TotalDebt = shared.Round2(totalDebt)
	return report
}

func appendMember(tier *AbcTier, member AbcMember) {
	tier.Customers = append(tier.Customers, member)
	tier.TotalDebt += member.TotalDebt
	tier.CustomerCount++
}
