package analytics

import (
	"math"
	"time"

	"github.com/debtwatch/debtwatch/internal/receivables"
	"github.com/debtwatch/debtwatch/internal/shared"
)

// CustomerStatistics aggregates one customer's payment behaviour. Computed
// fresh per request, never persisted.
type CustomerStatistics struct {
	TotalInvoices       int     `json:"total_invoices"`
	TotalDebt           float64 `json:"total_debt"`
	OverdueDebt         float64 `json:"overdue_debt"`
	OnTimePaid          int     `json:"on_time_paid"`
	LatePaid            int     `json:"late_paid"`
	AveragePaymentDelay int     `json:"average_payment_delay_days"`
	OnTimePaymentRate   int     `json:"on_time_payment_rate"`
}

// ComputeCustomerStatistics derives a customer's statistics from all of
// their invoices as of the evaluation date.
//
// Fully paid invoices with a recorded payment date classify as on-time
// (delay <= 0) or late. Partially paid invoices with a payment date only
// ever contribute to the late-delay side; an early partial payment is not
// evidence of on-time behaviour.
func ComputeCustomerStatistics(invoices []receivables.Invoice, asOf time.Time) CustomerStatistics {
	stats := CustomerStatistics{TotalInvoices: len(invoices)}

	var totalDebt, overdueDebt float64
	var delays []int

	for _, inv := range invoices {
		if inv.Settled() {
			if inv.PaidDate == nil {
				continue
			}
			delay := DaysOverdue(inv.DueDate, *inv.PaidDate)
			if delay <= 0 {
				stats.OnTimePaid++
			} else {
				stats.LatePaid++
				delays = append(delays, delay)
			}
			continue
		}

		totalDebt += inv.Outstanding()
		if DaysOverdue(inv.DueDate, asOf) > 0 {
			overdueDebt += inv.Outstanding()
		}
		if inv.PaidDate != nil {
			if delay := DaysOverdue(inv.DueDate, *inv.PaidDate); delay > 0 {
				stats.LatePaid++
				delays = append(delays, delay)
			}
		}
	}

	if len(delays) > 0 {
		sum := 0
		for _, d := range delays {
			sum += d
		}
		stats.AveragePaymentDelay = int(math.Round(float64(sum) / float64(len(delays))))
	}

	paid := stats.OnTimePaid + stats.LatePaid
	if paid == 0 {
		// No payment history yet: optimistic default, no evidence of
		// late payment.
		stats.OnTimePaymentRate = 100
	} else {
		stats.OnTimePaymentRate = int(math.Round(float64(stats.OnTimePaid) / float64(paid) * 100))
	}

	stats.TotalDebt = shared.Round2(totalDebt)
	stats.OverdueDebt = shared.Round2(overdueDebt)
	return stats
}
