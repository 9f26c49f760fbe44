package analytics

import (
	"github.com/debtwatch/debtwatch/internal/receivables"
	"github.com/debtwatch/debtwatch/internal/shared"
)

// ConcentrationCustomer is one customer's share of the portfolio debt.
type ConcentrationCustomer struct {
	receivables.CustomerDebt
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

// ConcentrationSummary captures portfolio-level concentration metrics.
// These are always computed over the entire customer set; the list filters
// below never affect them.
type ConcentrationSummary struct {
	TotalCustomers     int     `json:"total_customers"`
	TotalDebt          float64 `json:"total_debt"`
	MaxConcentration   float64 `json:"max_concentration"`
	Top5Concentration  float64 `json:"top5_concentration"`
	Top10Concentration float64 `json:"top10_concentration"`
}

// ConcentrationFilter optionally narrows the returned customer list. It is
// display-only: summary metrics ignore it.
type ConcentrationFilter struct {
	MinPercentage float64
	Limit         int
}

// ConcentrationReport pairs the (possibly filtered) customer shares with the
// unfiltered portfolio summary.
type ConcentrationReport struct {
	Customers []ConcentrationCustomer `json:"customers"`
	Summary   ConcentrationSummary    `json:"summary"`
}

// BuildConcentrationReport computes each customer's share of total debt and
// the max/top-5/top-10 portfolio concentration. The input is expected sorted
// by total debt descending; top-N slicing relies on that order.
func BuildConcentrationReport(customers []receivables.CustomerDebt, filter ConcentrationFilter) ConcentrationReport {
	var totalDebt float64
	for _, c := range customers {
		totalDebt += c.TotalDebt
	}

	shares := make([]ConcentrationCustomer, 0, len(customers))
	for _, c := range customers {
		shares = append(shares, ConcentrationCustomer{
			CustomerDebt:      c,
			PercentageOfTotal: shared.Percentage(c.TotalDebt, totalDebt),
		})
	}

	summary := ConcentrationSummary{
		TotalCustomers: len(customers),
		TotalDebt:      shared.Round2(totalDebt),
	}
	if len(shares) > 0 {
		summary.MaxConcentration = shares[0].PercentageOfTotal
	}
	summary.Top5Concentration = shared.Round2(sumShares(shares, 5))
	summary.Top10Concentration = shared.Round2(sumShares(shares, 10))

	filtered := make([]ConcentrationCustomer, 0, len(shares))
	for _, share := range shares {
		if share.PercentageOfTotal < filter.MinPercentage {
			continue
		}
		filtered = append(filtered, share)
		if filter.Limit > 0 && len(filtered) == filter.Limit {
			break
		}
	}

	return ConcentrationReport{Customers: filtered, Summary: summary}
}

func sumShares(shares []ConcentrationCustomer, n int) float64 {
	if len(shares) < n {
		n = len(shares)
	}
	var sum float64
	for _, share := range shares[:n] {
		sum += share.PercentageOfTotal
	}
	return sum
}
