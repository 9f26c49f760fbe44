package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/debtwatch/debtwatch/internal/receivables"
	"github.com/debtwatch/debtwatch/internal/shared"
)

type mockRepo struct {
	mu             sync.Mutex
	invoices       map[int64][]receivables.Invoice
	activities     map[int64][]receivables.CollectionActivity
	portfolio      []receivables.Invoice
	debts          []receivables.CustomerDebt
	ids            []int64
	outstanding    map[string]float64
	revenue        float64
	invoiceCalls   int
	debtCalls      int
	portfolioCalls int
}

func (m *mockRepo) InvoicesByCustomer(ctx context.Context, customerID int64) ([]receivables.Invoice, error) {
	m.mu.Lock()
	m.invoiceCalls++
	m.mu.Unlock()
	return m.invoices[customerID], nil
}

func (m *mockRepo) ActivitiesByCustomer(ctx context.Context, customerID int64) ([]receivables.CollectionActivity, error) {
	return m.activities[customerID], nil
}

func (m *mockRepo) PortfolioInvoices(ctx context.Context) ([]receivables.Invoice, error) {
	m.portfolioCalls++
	return m.portfolio, nil
}

func (m *mockRepo) CustomerDebts(ctx context.Context, asOf time.Time) ([]receivables.CustomerDebt, error) {
	m.debtCalls++
	return m.debts, nil
}

func (m *mockRepo) CustomerIDs(ctx context.Context) ([]int64, error) {
	return m.ids, nil
}

func (m *mockRepo) OutstandingAt(ctx context.Context, at time.Time) (float64, error) {
	return m.outstanding[at.Format("2006-01-02")], nil
}

func (m *mockRepo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return m.revenue, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute), nil)
}

func TestGetCustomerReport(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		invoices: map[int64][]receivables.Invoice{
			7: {
				openInvoice(asOf.AddDate(0, 0, -40), 2000, 0),
				paidInvoice(day(2026, time.January, 10), day(2026, time.January, 8), 500),
			},
		},
		activities: map[int64][]receivables.CollectionActivity{
			7: {activity(receivables.ActionNotice, asOf.AddDate(0, -1, 0))},
		},
	}
	svc := newTestService(t, repo)

	report, err := svc.GetCustomerReport(context.Background(), 7, asOf)
	require.NoError(t, err)

	require.Equal(t, int64(7), report.CustomerID)
	require.Equal(t, 2000.0, report.Statistics.TotalDebt)
	require.Equal(t, 40, report.Aging.MaxDaysOverdue)
	require.Equal(t, CategoryClaim, report.Category)
	require.Equal(t, "Send formal claim", report.Recommendation)
	require.NotEmpty(t, report.Risk.Factors)
	require.NotEmpty(t, report.Grade.Grade)
}

func TestGetCustomerReportRequiresID(t *testing.T) {
	svc := newTestService(t, &mockRepo{})

	_, err := svc.GetCustomerReport(context.Background(), 0, day(2026, time.March, 15))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetCustomerReportFlagsForceGradeF(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		invoices: map[int64][]receivables.Invoice{
			3: {paidInvoice(day(2026, time.January, 10), day(2026, time.January, 8), 500)},
		},
		activities: map[int64][]receivables.CollectionActivity{
			3: {activity(receivables.ActionLitigation, asOf.AddDate(0, -1, 0))},
		},
	}
	svc := newTestService(t, repo)

	report, err := svc.GetCustomerReport(context.Background(), 3, asOf)
	require.NoError(t, err)
	require.Equal(t, "F", report.Grade.Grade)
}

func TestGetCustomerReportCached(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		invoices: map[int64][]receivables.Invoice{
			7: {openInvoice(asOf.AddDate(0, 0, -10), 100, 0)},
		},
	}
	svc := newTestService(t, repo)

	first, err := svc.GetCustomerReport(context.Background(), 7, asOf)
	require.NoError(t, err)
	second, err := svc.GetCustomerReport(context.Background(), 7, asOf)
	require.NoError(t, err)

	require.Equal(t, 1, repo.invoiceCalls)
	require.Equal(t, first.Statistics, second.Statistics)
}

func TestGetCustomerReportRecomputesAfterBump(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		invoices: map[int64][]receivables.Invoice{
			7: {openInvoice(asOf.AddDate(0, 0, -10), 100, 0)},
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.GetCustomerReport(ctx, 7, asOf)
	require.NoError(t, err)
	require.NoError(t, svc.Cache().Bump(ctx))
	_, err = svc.GetCustomerReport(ctx, 7, asOf)
	require.NoError(t, err)

	require.Equal(t, 2, repo.invoiceCalls)
}

func TestGetPortfolioAging(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		portfolio: []receivables.Invoice{
			openInvoice(asOf.AddDate(0, 0, -10), 100, 0),
			openInvoice(asOf.AddDate(0, 0, -100), 200, 0),
		},
	}
	svc := newTestService(t, repo)

	buckets, err := svc.GetPortfolioAging(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, buckets, 5)

	_, err = svc.GetPortfolioAging(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, 1, repo.portfolioCalls)
}

func TestGetConcentrationFilterIsDisplayOnly(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{debts: debts(50000, 30000, 12000, 5000, 3000)}
	svc := newTestService(t, repo)
	ctx := context.Background()

	full, err := svc.GetConcentration(ctx, asOf, ConcentrationFilter{})
	require.NoError(t, err)
	narrowed, err := svc.GetConcentration(ctx, asOf, ConcentrationFilter{MinPercentage: 10, Limit: 2})
	require.NoError(t, err)

	require.Len(t, narrowed.Customers, 2)
	require.Equal(t, full.Summary, narrowed.Summary)
	// Both calls are served by the one cached unfiltered report.
	require.Equal(t, 1, repo.debtCalls)
}

func TestGetRiskRankingOrder(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		ids: []int64{1, 2, 3},
		invoices: map[int64][]receivables.Invoice{
			// Clean payer, low score.
			1: {openInvoice(asOf.AddDate(0, 0, 30), 1000, 0)},
			// Everything overdue, high score.
			2: {openInvoice(asOf.AddDate(0, 0, -200), 20000, 0)},
			// Same profile as 1 but more debt.
			3: {openInvoice(asOf.AddDate(0, 0, 30), 5000, 0)},
		},
	}
	svc := newTestService(t, repo)

	ranking, err := svc.GetRiskRanking(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	require.Equal(t, int64(2), ranking[0].CustomerID)
	// Equal scores tie-break on total debt descending.
	require.Equal(t, int64(3), ranking[1].CustomerID)
	require.Equal(t, int64(1), ranking[2].CustomerID)
	require.Equal(t, ranking[1].Score, ranking[2].Score)
}

func TestGetTurnover(t *testing.T) {
	from := day(2026, time.January, 1)
	to := day(2026, time.March, 31)
	repo := &mockRepo{
		outstanding: map[string]float64{
			"2026-01-01": 80000,
			"2026-03-31": 120000,
		},
		revenue: 250000,
	}
	svc := newTestService(t, repo)

	report, err := svc.GetTurnover(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 100000.0, report.AverageReceivables)
	require.InDelta(t, 2.5, report.TurnoverRatio, 0.0001)
}

func TestGetTurnoverValidatesPeriod(t *testing.T) {
	svc := newTestService(t, &mockRepo{})
	ctx := context.Background()

	_, err := svc.GetTurnover(ctx, time.Time{}, day(2026, time.March, 31))
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.GetTurnover(ctx, day(2026, time.April, 1), day(2026, time.March, 31))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestServiceWorksWithoutCache(t *testing.T) {
	asOf := day(2026, time.March, 15)
	repo := &mockRepo{
		invoices: map[int64][]receivables.Invoice{
			7: {openInvoice(asOf.AddDate(0, 0, -10), 100, 0)},
		},
	}
	svc := NewService(repo, nil, nil)

	report, err := svc.GetCustomerReport(context.Background(), 7, asOf)
	require.NoError(t, err)
	require.Equal(t, 100.0, report.Statistics.TotalDebt)
}
