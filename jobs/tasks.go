package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSettlementNotice notifies a lecturer that their claim was paid.
	TaskSettlementNotice = "claims:settlement_notice"
	// TaskReportWarmup refreshes the cached monthly report.
	TaskReportWarmup = "finance:report_warmup"
)

// SettlementNoticePayload identifies the settled claim to announce.
type SettlementNoticePayload struct {
	ClaimID int64 `json:"claim_id"`
}

// NewSettlementNoticeTask constructs an Asynq task.
func NewSettlementNoticeTask(payload SettlementNoticePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSettlementNotice, data), nil
}

// ReportWarmupPayload selects the period to warm. A zero month/year means
// the current period at execution time.
type ReportWarmupPayload struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueueSettlementNotice enqueues a settlement notice for the claim.
func (c *Client) EnqueueSettlementNotice(ctx context.Context, claimID int64) error {
	task, err := NewSettlementNoticeTask(SettlementNoticePayload{ClaimID: claimID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
