package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/debtwatch/debtwatch/internal/observability"
	"github.com/debtwatch/debtwatch/internal/receivables"
	"github.com/debtwatch/debtwatch/internal/shared"
)

// Repository exposes the receivables queries the analytics service relies on.
// Records arrive already fetched; every computation below is a pure function
// of them and the as-of date.
type Repository interface {
	InvoicesByCustomer(ctx context.Context, customerID int64) ([]receivables.Invoice, error)
	ActivitiesByCustomer(ctx context.Context, customerID int64) ([]receivables.CollectionActivity, error)
	PortfolioInvoices(ctx context.Context) ([]receivables.Invoice, error)
	CustomerDebts(ctx context.Context, asOf time.Time) ([]receivables.CustomerDebt, error)
	CustomerIDs(ctx context.Context) ([]int64, error)
	OutstandingAt(ctx context.Context, at time.Time) (float64, error)
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// Service coordinates record fetching, engine computation, and the cache.
type Service struct {
	repo    Repository
	cache   *Cache
	metrics *observability.Metrics
}

// NewService wires a Repository with the cache helper. Both cache and
// metrics may be nil.
func NewService(repo Repository, cache *Cache, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, cache: cache, metrics: metrics}
}

// CustomerReport is the full per-customer analysis: statistics, grade, risk
// assessment, aging breakdown, and the collection recommendation driven by
// the oldest outstanding invoice.
type CustomerReport struct {
	CustomerID     int64              `json:"customer_id"`
	AsOf           time.Time          `json:"as_of"`
	Statistics     CustomerStatistics `json:"statistics"`
	Grade          PaymentGrade       `json:"grade"`
	Risk           RiskAssessment     `json:"risk"`
	Aging          CustomerAging      `json:"aging"`
	Category       OverdueCategory    `json:"category"`
	Recommendation string             `json:"recommendation"`
}

// CustomerRiskSummary is one row of the portfolio risk ranking.
type CustomerRiskSummary struct {
	CustomerID  int64     `json:"customer_id"`
	Score       int       `json:"score"`
	Level       RiskLevel `json:"level"`
	Grade       string    `json:"grade"`
	TotalDebt   float64   `json:"total_debt"`
	OverdueDebt float64   `json:"overdue_debt"`
}

// GetCustomerReport computes the dashboard analysis for one customer.
// Statistics run before scoring since scoring consumes their output.
func (s *Service) GetCustomerReport(ctx context.Context, customerID int64, asOf time.Time) (CustomerReport, error) {
	asOf = normalizeAsOf(asOf)
	if customerID <= 0 {
		return CustomerReport{}, fmt.Errorf("%w: customer id required", shared.ErrValidation)
	}

	loader := func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		report, err := s.buildCustomerReport(ctx, customerID, asOf)
		s.metrics.ObserveReport("customer_report", start, err)
		return report, err
	}

	var report CustomerReport
	if err := s.cached(ctx, keyCustomerReport(customerID, asOf), &report, loader); err != nil {
		return CustomerReport{}, err
	}
	return report, nil
}

func (s *Service) buildCustomerReport(ctx context.Context, customerID int64, asOf time.Time) (CustomerReport, error) {
	invoices, err := s.repo.InvoicesByCustomer(ctx, customerID)
	if err != nil {
		return CustomerReport{}, fmt.Errorf("load invoices: %w", err)
	}
	activities, err := s.repo.ActivitiesByCustomer(ctx, customerID)
	if err != nil {
		return CustomerReport{}, fmt.Errorf("load activities: %w", err)
	}

	stats := ComputeCustomerStatistics(invoices, asOf)
	risk := AssessRisk(invoices, activities, stats, asOf)
	grade := GradePayment(stats.OnTimePaymentRate, hasAction(activities, receivables.ActionLitigation), hasAction(activities, receivables.ActionWriteOff))
	aging := AgingOfCustomer(invoices, asOf)
	category := Categorize(aging.MaxDaysOverdue)

	return CustomerReport{
		CustomerID:     customerID,
		AsOf:           asOf,
		Statistics:     stats,
		Grade:          grade,
		Risk:           risk,
		Aging:          aging,
		Category:       category,
		Recommendation: Recommendation(category),
	}, nil
}

// GetPortfolioAging rolls the whole portfolio into the five aging buckets.
func (s *Service) GetPortfolioAging(ctx context.Context, asOf time.Time) ([]AgingBucket, error) {
	asOf = normalizeAsOf(asOf)

	loader := func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		invoices, err := s.repo.PortfolioInvoices(ctx)
		if err != nil {
			s.metrics.ObserveReport("aging", start, err)
			return nil, fmt.Errorf("load portfolio invoices: %w", err)
		}
		buckets := AgingBuckets(invoices, asOf)
		s.metrics.ObserveReport("aging", start, nil)
		return buckets, nil
	}

	var buckets []AgingBucket
	if err := s.cached(ctx, keyAging(asOf), &buckets, loader); err != nil {
		return nil, err
	}
	return buckets, nil
}

// GetAbcReport classifies all customers into ABC tiers by debt share.
func (s *Service) GetAbcReport(ctx context.Context, asOf time.Time) (AbcReport, error) {
	asOf = normalizeAsOf(asOf)

	loader := func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		debts, err := s.repo.CustomerDebts(ctx, asOf)
		if err != nil {
			s.metrics.ObserveReport("abc", start, err)
			return nil, fmt.Errorf("load customer debts: %w", err)
		}
		report := BuildAbcReport(debts)
		s.metrics.ObserveReport("abc", start, nil)
		return report, nil
	}

	var report AbcReport
	if err := s.cached(ctx, keyAbc(asOf), &report, loader); err != nil {
		return AbcReport{}, err
	}
	return report, nil
}

// GetConcentration computes the concentration report. The unfiltered report
// is cached; filters narrow only the returned customer list.
func (s *Service) GetConcentration(ctx context.Context, asOf time.Time, filter ConcentrationFilter) (ConcentrationReport, error) {
	asOf = normalizeAsOf(asOf)

	loader := func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		debts, err := s.repo.CustomerDebts(ctx, asOf)
		if err != nil {
			s.metrics.ObserveReport("concentration", start, err)
			return nil, fmt.Errorf("load customer debts: %w", err)
		}
		report := BuildConcentrationReport(debts, ConcentrationFilter{})
		s.metrics.ObserveReport("concentration", start, nil)
		return report, nil
	}

	var report ConcentrationReport
	if err := s.cached(ctx, keyConcentration(asOf), &report, loader); err != nil {
		return ConcentrationReport{}, err
	}
	return filterConcentration(report, filter), nil
}

// GetRiskRanking scores every customer and returns them ordered by risk
// descending. Customers are independent, so scoring runs in parallel;
// within one customer the statistics-then-scoring order is preserved.
func (s *Service) GetRiskRanking(ctx context.Context, asOf time.Time) ([]CustomerRiskSummary, error) {
	asOf = normalizeAsOf(asOf)

	loader := func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		summaries, err := s.buildRiskRanking(ctx, asOf)
		s.metrics.ObserveReport("risk_ranking", start, err)
		return summaries, err
	}

	var summaries []CustomerRiskSummary
	if err := s.cached(ctx, keyRiskRanking(asOf), &summaries, loader); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Service) buildRiskRanking(ctx context.Context, asOf time.Time) ([]CustomerRiskSummary, error) {
	ids, err := s.repo.CustomerIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customer ids: %w", err)
	}

	summaries := make([]CustomerRiskSummary, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			report, err := s.buildCustomerReport(ctx, id, asOf)
			if err != nil {
				return err
			}
			summaries[i] = CustomerRiskSummary{
				CustomerID:  id,
				Score:       report.Risk.Score,
				Level:       report.Risk.Level,
				Grade:       report.Grade.Grade,
				TotalDebt:   report.Statistics.TotalDebt,
				OverdueDebt: report.Statistics.OverdueDebt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Score != summaries[j].Score {
			return summaries[i].Score > summaries[j].Score
		}
		return summaries[i].TotalDebt > summaries[j].TotalDebt
	})
	return summaries, nil
}

// GetTurnover computes the receivables turnover report for a period.
func (s *Service) GetTurnover(ctx context.Context, from, to time.Time) (TurnoverReport, error) {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return TurnoverReport{}, fmt.Errorf("%w: period bounds required and start must not follow end", shared.ErrValidation)
	}

	loader := func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		opening, err := s.repo.OutstandingAt(ctx, from)
		if err != nil {
			s.metrics.ObserveReport("turnover", start, err)
			return nil, fmt.Errorf("opening snapshot: %w", err)
		}
		closing, err := s.repo.OutstandingAt(ctx, to)
		if err != nil {
			s.metrics.ObserveReport("turnover", start, err)
			return nil, fmt.Errorf("closing snapshot: %w", err)
		}
		revenue, err := s.repo.RevenueBetween(ctx, from, to)
		if err != nil {
			s.metrics.ObserveReport("turnover", start, err)
			return nil, fmt.Errorf("period revenue: %w", err)
		}
		report := ComputeTurnover(from, to, opening, closing, revenue)
		s.metrics.ObserveReport("turnover", start, nil)
		return report, nil
	}

	var report TurnoverReport
	if err := s.cached(ctx, keyTurnover(from, to), &report, loader); err != nil {
		return TurnoverReport{}, err
	}
	return report, nil
}

// Cache returns the cache helper for wiring write-side invalidation.
func (s *Service) Cache() *Cache {
	return s.cache
}

// cached funnels every report through the versioned cache. A nil cache is
// fine: FetchJSON degrades to a plain loader call.
func (s *Service) cached(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func filterConcentration(report ConcentrationReport, filter ConcentrationFilter) ConcentrationReport {
	if filter.MinPercentage <= 0 && filter.Limit <= 0 {
		return report
	}
	filtered := make([]ConcentrationCustomer, 0, len(report.Customers))
	for _, c := range report.Customers {
		if c.PercentageOfTotal < filter.MinPercentage {
			continue
		}
		filtered = append(filtered, c)
		if filter.Limit > 0 && len(filtered) == filter.Limit {
			break
		}
	}
	report.Customers = filtered
	return report
}

func hasAction(activities []receivables.CollectionActivity, action receivables.ActionType) bool {
	for _, act := range activities {
		if act.Action == action {
			return true
		}
	}
	return false
}

func normalizeAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return normalizeDate(asOf)
}
