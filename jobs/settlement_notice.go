package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"github.com/claimflow/claimflow/internal/claims"
	jobmetrics "github.com/claimflow/claimflow/internal/jobs"
	"github.com/claimflow/claimflow/internal/lecturers"
	"github.com/claimflow/claimflow/internal/shared"
)

// Mailer delivers a plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	Addr string
	From string
}

// Send delivers one message.
func (m SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body)
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg))
}

// ClaimGetter loads one claim.
type ClaimGetter interface {
	GetClaimByID(ctx context.Context, id int64) (claims.Claim, error)
}

// LecturerGetter resolves a lecturer's contact details.
type LecturerGetter interface {
	Get(ctx context.Context, id int64) (lecturers.Lecturer, error)
}

// SettlementNoticeJob emails a lecturer after their claim settles.
type SettlementNoticeJob struct {
	Claims    ClaimGetter
	Lecturers LecturerGetter
	Mailer    Mailer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewSettlementNoticeJob wires dependencies for the notice handler.
func NewSettlementNoticeJob(claimSrc ClaimGetter, lecturerSrc LecturerGetter, mailer Mailer, logger *slog.Logger, metrics *jobmetrics.Metrics) *SettlementNoticeJob {
	return &SettlementNoticeJob{
		Claims:    claimSrc,
		Lecturers: lecturerSrc,
		Mailer:    mailer,
		Logger:    logger,
		Metrics:   metrics,
	}
}

// Handle processes settlement notice tasks.
func (j *SettlementNoticeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("settlement notice: handler not configured")
	}
	var payload SettlementNoticePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskSettlementNotice)
	var resultErr error
	defer func() {
		tracker.End(resultErr)
	}()

	claim, err := j.Claims.GetClaimByID(ctx, payload.ClaimID)
	if err != nil {
		// A vanished claim will not reappear on retry.
		if errors.Is(err, shared.ErrNotFound) {
			j.logger().Warn("settlement notice for missing claim", slog.Int64("claim_id", payload.ClaimID))
			return asynq.SkipRetry
		}
		resultErr = err
		return resultErr
	}

	lecturer, err := j.Lecturers.Get(ctx, claim.LecturerID)
	if err != nil {
		resultErr = fmt.Errorf("resolve lecturer %d: %w", claim.LecturerID, err)
		return resultErr
	}
	if lecturer.Email == "" {
		j.logger().Warn("lecturer has no email", slog.Int64("lecturer_id", lecturer.ID))
		return asynq.SkipRetry
	}

	subject := fmt.Sprintf("Claim %d settled", claim.ID)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour claim for %02d/%d has been settled. Amount: %s.\n\nClaims Office",
		lecturer.FullName, claim.Month, claim.Year, shared.FormatAmount(claim.Amount),
	)
	if j.Mailer == nil {
		j.logger().Info("mailer not configured, skipping delivery",
			slog.Int64("claim_id", claim.ID), slog.String("to", lecturer.Email))
		return nil
	}
	if err := j.Mailer.Send(lecturer.Email, subject, body); err != nil {
		resultErr = err
		return resultErr
	}

	j.logger().Info("settlement notice sent",
		slog.Int64("claim_id", claim.ID), slog.String("to", lecturer.Email))
	return nil
}

func (j *SettlementNoticeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
