package analytics

import (
	"fmt"
	"time"

	"github.com/debtwatch/debtwatch/internal/receivables"
)

// FactorPolarity marks whether a risk factor works for or against the customer.
type FactorPolarity string

const (
	PolarityPositive FactorPolarity = "POSITIVE"
	PolarityNegative FactorPolarity = "NEGATIVE"
	PolarityNeutral  FactorPolarity = "NEUTRAL"
)

// RiskLevel bands the 0-100 risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskFactor is one explainable contribution to a customer's risk score.
// Negative weights reduce risk (POSITIVE polarity), positive weights raise it.
type RiskFactor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Polarity    FactorPolarity `json:"polarity"`
	Weight      int            `json:"weight"`
}

// RiskAssessment is the scored result with its contributing factors. The
// factor list is never empty; an insufficient-data factor is synthesized
// when nothing fires.
type RiskAssessment struct {
	Score   int          `json:"score"`
	Level   RiskLevel    `json:"level"`
	Factors []RiskFactor `json:"factors"`
}

type riskInput struct {
	invoices   []receivables.Invoice
	activities []receivables.CollectionActivity
	stats      CustomerStatistics
	asOf       time.Time
}

// riskRule is one entry of the factor table: a predicate with its weight and
// description. Keeping the factors as data makes adding or removing one a
// table change rather than new control flow.
type riskRule struct {
	name     string
	evaluate func(in riskInput) (weight int, description string, fired bool)
}

// Baseline offset added to the accumulated factor weights before clamping,
// so a customer with no signal lands near the low-risk band instead of zero.
const riskBaseline = 30

const largeAgedReceivableThreshold = 10000

var riskRules = []riskRule{
	{
		name: "overdue_debt_ratio",
		evaluate: func(in riskInput) (int, string, bool) {
			if len(in.invoices) == 0 {
				return 0, "", false
			}
			// Raw ratio: banding must not be disturbed by display rounding,
			// a tiny overdue remainder is still overdue debt.
			var ratio float64
			if in.stats.TotalDebt > 0 {
				ratio = in.stats.OverdueDebt / in.stats.TotalDebt * 100
			}
			switch {
			case ratio == 0:
				return -10, "no overdue debt", true
			case ratio > 50:
				return 25, fmt.Sprintf("overdue debt is %.2f%% of total debt", ratio), true
			case ratio > 20:
				return 15, fmt.Sprintf("overdue debt is %.2f%% of total debt", ratio), true
			default:
				return 0, "", false
			}
		},
	},
	{
		name: "payment_discipline",
		evaluate: func(in riskInput) (int, string, bool) {
			if in.stats.OnTimePaid+in.stats.LatePaid == 0 {
				return 0, "", false
			}
			switch {
			case in.stats.OnTimePaymentRate > 90:
				return -15, fmt.Sprintf("%d%% of invoices paid on time", in.stats.OnTimePaymentRate), true
			case in.stats.OnTimePaymentRate < 50:
				return 20, fmt.Sprintf("only %d%% of invoices paid on time", in.stats.OnTimePaymentRate), true
			default:
				return 0, "", false
			}
		},
	},
	{
		name: "large_aged_receivable",
		evaluate: func(in riskInput) (int, string, bool) {
			for _, inv := range in.invoices {
				if inv.Settled() {
					continue
				}
				if DaysOverdue(inv.DueDate, in.asOf) > 90 && inv.Outstanding() > largeAgedReceivableThreshold {
					return 25, fmt.Sprintf("invoice %s overdue more than 90 days with %.2f outstanding", inv.Number, inv.Outstanding()), true
				}
			}
			return 0, "", false
		},
	},
	{
		name: "enforcement_history",
		evaluate: func(in riskInput) (int, string, bool) {
			for _, act := range in.activities {
				if act.Action == receivables.ActionLitigation || act.Action == receivables.ActionCollectionAgency {
					return 30, fmt.Sprintf("collection escalated to %s", act.Action), true
				}
			}
			return 0, "", false
		},
	},
	{
		name: "formal_claim",
		evaluate: func(in riskInput) (int, string, bool) {
			for _, act := range in.activities {
				if act.Action == receivables.ActionClaim {
					return 10, "formal claim on record", true
				}
			}
			return 0, "", false
		},
	},
	{
		name: "statute_barred_debt",
		evaluate: func(in riskInput) (int, string, bool) {
			for _, inv := range in.invoices {
				if inv.Settled() {
					continue
				}
				if days := DaysOverdue(inv.DueDate, in.asOf); days > 1095 {
					return 35, fmt.Sprintf("invoice %s overdue %d days", inv.Number, days), true
				}
			}
			return 0, "", false
		},
	},
	{
		name: "recent_payment_momentum",
		evaluate: func(in riskInput) (int, string, bool) {
			if in.stats.OnTimePaymentRate <= 75 {
				return 0, "", false
			}
			since := in.asOf.AddDate(0, -6, 0)
			recent := 0
			for _, inv := range in.invoices {
				if inv.PaidDate == nil {
					continue
				}
				if inv.PaidDate.After(since) && !inv.PaidDate.After(in.asOf) {
					recent++
				}
			}
			if recent > 3 {
				return -10, fmt.Sprintf("%d payments in the last 6 months with strong on-time rate", recent), true
			}
			return 0, "", false
		},
	},
}

// AssessRisk scores a customer by evaluating the factor table over their
// invoices, collection activities, and precomputed statistics. Factors are
// independent; several may fire at once.
func AssessRisk(invoices []receivables.Invoice, activities []receivables.CollectionActivity, stats CustomerStatistics, asOf time.Time) RiskAssessment {
	in := riskInput{invoices: invoices, activities: activities, stats: stats, asOf: asOf}

	total := 0
	var factors []RiskFactor
	for _, rule := range riskRules {
		weight, description, fired := rule.evaluate(in)
		if !fired {
			continue
		}
		total += weight
		factors = append(factors, RiskFactor{
			Name:        rule.name,
			Description: description,
			Polarity:    polarityOf(weight),
			Weight:      weight,
		})
	}

	if len(factors) == 0 {
		factors = []RiskFactor{{
			Name:        "insufficient_data",
			Description: "not enough payment history to assess risk",
			Polarity:    PolarityNeutral,
			Weight:      0,
		}}
	}

	score := clampScore(total + riskBaseline)
	return RiskAssessment{
		Score:   score,
		Level:   levelOf(score),
		Factors: factors,
	}
}

func polarityOf(weight int) FactorPolarity {
	switch {
	case weight < 0:
		return PolarityPositive
	case weight > 0:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func levelOf(score int) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskMedium
	case score <= 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}
