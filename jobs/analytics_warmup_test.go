package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/debtwatch/debtwatch/internal/analytics"
	"github.com/debtwatch/debtwatch/internal/receivables"
)

type stubRepo struct {
	debtCalls      int
	portfolioCalls int
}

func (s *stubRepo) InvoicesByCustomer(ctx context.Context, customerID int64) ([]receivables.Invoice, error) {
	return nil, nil
}

func (s *stubRepo) ActivitiesByCustomer(ctx context.Context, customerID int64) ([]receivables.CollectionActivity, error) {
	return nil, nil
}

func (s *stubRepo) PortfolioInvoices(ctx context.Context) ([]receivables.Invoice, error) {
	s.portfolioCalls++
	return nil, nil
}

func (s *stubRepo) CustomerDebts(ctx context.Context, asOf time.Time) ([]receivables.CustomerDebt, error) {
	s.debtCalls++
	return nil, nil
}

func (s *stubRepo) CustomerIDs(ctx context.Context) ([]int64, error) {
	return nil, nil
}

func (s *stubRepo) OutstandingAt(ctx context.Context, at time.Time) (float64, error) {
	return 0, nil
}

func (s *stubRepo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return 0, nil
}

func TestAnalyticsWarmupHandle(t *testing.T) {
	repo := &stubRepo{}
	svc := analytics.NewService(repo, nil, nil)
	job := NewAnalyticsWarmupJob(svc, nil)

	task, err := NewAnalyticsWarmupTask(WarmupPayload{AsOf: "2026-03-15"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, repo.portfolioCalls)
	// ABC and concentration each load the debt aggregates.
	require.Equal(t, 2, repo.debtCalls)
}

func TestAnalyticsWarmupRejectsBadPayload(t *testing.T) {
	job := NewAnalyticsWarmupJob(analytics.NewService(&stubRepo{}, nil, nil), nil)

	bad := asynq.NewTask(TaskAnalyticsWarmup, []byte("{"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)

	badDate, err := NewAnalyticsWarmupTask(WarmupPayload{AsOf: "15.03.2026"})
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), badDate), asynq.SkipRetry)
}
