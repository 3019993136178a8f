package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-assets/internal/assets"
	"github.com/odyssey-erp/odyssey-assets/internal/observability"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// DepreciationPoster is the service capability the batch job drives.
type DepreciationPoster interface {
	PostDueEntries(ctx context.Context, asOf time.Time) (assets.BatchResult, error)
}

// DepreciationPostJob runs the scheduled depreciation batch. A redis run lock
// keeps overlapping runs from double-posting; the per-line journal-reference
// re-check inside the posting transaction is the last line of defence.
type DepreciationPostJob struct {
	Service DepreciationPoster
	Logger  *slog.Logger
	Metrics *observability.Metrics
	lock    *shared.RunLock
	clock   func() time.Time
}

// NewDepreciationPostJob initialises the batch handler. redisClient may be
// nil in tests; the lock then degrades to a no-op.
func NewDepreciationPostJob(service DepreciationPoster, redisClient *redis.Client, lockTTL time.Duration, logger *slog.Logger, metrics *observability.Metrics) *DepreciationPostJob {
	if lockTTL <= 0 {
		lockTTL = time.Hour
	}
	return &DepreciationPostJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		lock:    shared.NewRunLock(redisClient, shared.DepreciationRunKey(), lockTTL),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithClock overrides the job clock for deterministic tests.
func (j *DepreciationPostJob) WithClock(clock func() time.Time) {
	if clock != nil {
		j.clock = clock
	}
}

// Handle executes one batch run.
func (j *DepreciationPostJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("depreciation post: handler not configured")
	}
	var payload DepreciationPostPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.clock()
	if payload.AsOfDate != "" {
		parsed, err := time.Parse("2006-01-02", payload.AsOfDate)
		if err != nil {
			j.logger().Error("bad as_of_date in payload", slog.String("as_of_date", payload.AsOfDate))
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	acquired, err := j.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		j.logger().Warn("depreciation batch already running, skipping", slog.String("as_of", asOf.Format("2006-01-02")))
		return nil
	}
	defer j.lock.Release(ctx)

	logger := j.logger().With(slog.String("as_of", asOf.Format("2006-01-02")))
	logger.Info("starting depreciation batch")

	start := time.Now()
	result, err := j.Service.PostDueEntries(ctx, asOf)
	j.Metrics.ObserveBatch(result.EntriesPosted, result.AmountPosted, time.Since(start), err)
	if err != nil {
		// Assets processed before the failure stay committed; the next run
		// resumes from the unposted remainder.
		logger.Error("depreciation batch failed",
			slog.Int("assets_processed", result.AssetsProcessed),
			slog.Int("entries_posted", result.EntriesPosted),
			slog.Any("error", err),
		)
		return err
	}

	logger.Info("completed depreciation batch",
		slog.Int("assets_processed", result.AssetsProcessed),
		slog.Int("entries_posted", result.EntriesPosted),
		slog.Float64("amount_posted", result.AmountPosted),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *DepreciationPostJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
