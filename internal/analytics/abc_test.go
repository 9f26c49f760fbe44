package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debtwatch/debtwatch/internal/receivables"
)

func debts(amounts ...float64) []receivables.CustomerDebt {
	out := make([]receivables.CustomerDebt, 0, len(amounts))
	for i, amount := range amounts {
		out = append(out, receivables.CustomerDebt{
			CustomerID:   int64(i + 1),
			CustomerName: string(rune('A' + i)),
			TotalDebt:    amount,
		})
	}
	return out
}

func TestBuildAbcReport(t *testing.T) {
	report := BuildAbcReport(debts(70000, 15000, 10000, 5000))

	require.Equal(t, 100000.0, report.TotalDebt)
	require.Equal(t, 4, report.TotalCustomers)

	require.Len(t, report.TierA.Customers, 1)
	require.Equal(t, 70.0, report.TierA.Customers[0].CumulativePercentage)
	require.Equal(t, 70000.0, report.TierA.TotalDebt)
	require.Equal(t, 70.0, report.TierA.DebtPercentage)
	require.Equal(t, 25.0, report.TierA.CustomerPercentage)

	require.Len(t, report.TierB.Customers, 2)
	require.Equal(t, 85.0, report.TierB.Customers[0].CumulativePercentage)
	require.Equal(t, 95.0, report.TierB.Customers[1].CumulativePercentage)

	require.Len(t, report.TierC.Customers, 1)
	require.Equal(t, 100.0, report.TierC.Customers[0].CumulativePercentage)
}

func TestBuildAbcReportSingleCustomer(t *testing.T) {
	report := BuildAbcReport(debts(50000))

	// Tiering is purely threshold driven: 100% cumulative exceeds the B
	// cutoff, so the sole customer lands in tier C.
	require.Empty(t, report.TierA.Customers)
	require.Empty(t, report.TierB.Customers)
	require.Len(t, report.TierC.Customers, 1)
}

func TestBuildAbcReportEmpty(t *testing.T) {
	report := BuildAbcReport(nil)

	require.Zero(t, report.TotalDebt)
	require.Zero(t, report.TotalCustomers)
	require.NotNil(t, report.TierA.Customers)
	require.NotNil(t, report.TierB.Customers)
	require.NotNil(t, report.TierC.Customers)
	require.Equal(t, "A", report.TierA.Tier)
	require.Equal(t, "B", report.TierB.Tier)
	require.Equal(t, "C", report.TierC.Tier)
}

func TestBuildAbcReportConservation(t *testing.T) {
	input := debts(40000, 25000, 12000, 9000, 7000, 4000, 2000, 1000)
	report := BuildAbcReport(input)

	count := report.TierA.CustomerCount + report.TierB.CustomerCount + report.TierC.CustomerCount
	require.Equal(t, len(input), count)

	total := report.TierA.TotalDebt + report.TierB.TotalDebt + report.TierC.TotalDebt
	require.InDelta(t, report.TotalDebt, total, 0.01)
}
