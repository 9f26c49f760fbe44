package analytics

import (
	"time"

	"github.com/debtwatch/debtwatch/internal/shared"
)

// TurnoverReport relates period revenue to the receivables carried through
// the period, a collection-efficiency indicator.
type TurnoverReport struct {
	PeriodStart        time.Time `json:"period_start"`
	PeriodEnd          time.Time `json:"period_end"`
	OpeningReceivables float64   `json:"opening_receivables"`
	ClosingReceivables float64   `json:"closing_receivables"`
	AverageReceivables float64   `json:"average_receivables"`
	PeriodRevenue      float64   `json:"period_revenue"`
	TurnoverRatio      float64   `json:"turnover_ratio"`
}

// ComputeTurnover builds the turnover report from the outstanding snapshots
// at the period boundaries and the revenue recognised within it. A zero
// average yields a zero ratio, never an error.
func ComputeTurnover(periodStart, periodEnd time.Time, opening, closing, revenue float64) TurnoverReport {
	average := (opening + closing) / 2

	var ratio float64
	if average > 0 {
		ratio = revenue / average
	}

	return TurnoverReport{
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		OpeningReceivables: shared.Round2(opening),
		ClosingReceivables: shared.Round2(closing),
		AverageReceivables: shared.Round2(average),
		PeriodRevenue:      shared.Round2(revenue),
		TurnoverRatio:      ratio,
	}
}
