package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/claimflow/claimflow/internal/finance"
	jobmetrics "github.com/claimflow/claimflow/internal/jobs"
)

// reportWarmupTTL outlives the handler-side cache window so a warmed entry
// survives until the next nightly run even with no traffic.
const reportWarmupTTL = 26 * time.Hour

// ReportWarmupJob precomputes the monthly report and caches it in redis so
// the first HR request of the day is served warm.
type ReportWarmupJob struct {
	Finance *finance.Service
	Cache   *redis.Client
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(financeSvc *finance.Service, cache *redis.Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Finance: financeSvc,
		Cache:   cache,
		Logger:  logger,
		Metrics: metrics,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Finance == nil || j.Cache == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Month == 0 || payload.Year == 0 {
		now := j.clock()
		payload.Month = int(now.Month())
		payload.Year = now.Year()
	}

	tracker := j.Metrics.Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		tracker.End(resultErr)
	}()

	report, err := j.Finance.GenerateMonthlyReport(ctx, payload.Month, payload.Year)
	if err != nil {
		resultErr = err
		return resultErr
	}
	encoded, err := json.Marshal(report)
	if err != nil {
		resultErr = err
		return resultErr
	}
	key := finance.ReportCacheKey(payload.Month, payload.Year)
	if err := j.Cache.Set(ctx, key, encoded, reportWarmupTTL).Err(); err != nil {
		resultErr = err
		return resultErr
	}

	j.logger().Info("monthly report warmed",
		slog.Int("month", payload.Month), slog.Int("year", payload.Year),
		slog.Int("claims", report.TotalClaims))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
