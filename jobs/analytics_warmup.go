package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/debtwatch/debtwatch/internal/analytics"
)

// AnalyticsWarmupJob pre-populates the analytics cache so the first
// dashboard request after an invalidation does not pay the computation cost.
type AnalyticsWarmupJob struct {
	Analytics *analytics.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc *analytics.Service, logger *slog.Logger) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{
		Analytics: analyticsSvc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.clock()
	if payload.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	logger := j.logger().With(slog.String("as_of", asOf.Format("2006-01-02")))
	logger.Info("starting analytics warmup")
	start := time.Now()

	if _, err := j.Analytics.GetPortfolioAging(ctx, asOf); err != nil {
		logger.Error("warm portfolio aging", slog.Any("error", err))
		return err
	}
	if _, err := j.Analytics.GetAbcReport(ctx, asOf); err != nil {
		logger.Error("warm abc report", slog.Any("error", err))
		return err
	}
	if _, err := j.Analytics.GetConcentration(ctx, asOf, analytics.ConcentrationFilter{}); err != nil {
		logger.Error("warm concentration report", slog.Any("error", err))
		return err
	}
	if _, err := j.Analytics.GetRiskRanking(ctx, asOf); err != nil {
		logger.Error("warm risk ranking", slog.Any("error", err))
		return err
	}

	logger.Info("analytics warmup complete", slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
