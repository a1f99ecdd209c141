package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/sso-api/internal/email"
	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
	"github.com/jwalitptl/sso-api/pkg/metrics"
)

const (
	mailBatchSize  = 50
	mailMaxRetries = 3
	mailRetryDelay = 5 * time.Minute
)

// MailWorker drains the mail queue on a fixed interval, rendering and
// delivering each pending email.
type MailWorker struct {
	queue    repository.NotificationRepository
	accounts repository.AccountRepository
	sender   email.Sender
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

func NewMailWorker(queue repository.NotificationRepository, accounts repository.AccountRepository,
	sender email.Sender, interval time.Duration, m *metrics.Metrics, logger *zerolog.Logger) *MailWorker {
	return &MailWorker{
		queue:    queue,
		accounts: accounts,
		sender:   sender,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

func (w *MailWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				w.logger.Error().Err(err).Msg("mail batch failed")
			}
		}
	}
}

func (w *MailWorker) processBatch(ctx context.Context) error {
	pending, err := w.queue.GetPending(ctx, mailBatchSize)
	if err != nil {
		return err
	}

	for _, queued := range pending {
		if err := w.deliver(ctx, queued); err != nil {
			w.fail(ctx, queued, err)
			continue
		}

		if err := w.queue.MarkSent(ctx, queued.ID); err != nil {
			w.logger.Error().Err(err).Str("email_id", queued.ID.String()).Msg("failed to mark email sent")
			continue
		}
		if w.metrics != nil {
			w.metrics.MailSent.Inc()
		}
	}
	return nil
}

func (w *MailWorker) deliver(ctx context.Context, queued *model.QueuedEmail) error {
	recipient, err := w.recipient(ctx, queued)
	if err != nil {
		return err
	}

	var payload map[string]interface{}
	if len(queued.Payload) > 0 {
		if err := json.Unmarshal(queued.Payload, &payload); err != nil {
			return err
		}
	}

	subject, body, err := email.Render(queued.TemplateCode, payload)
	if err != nil {
		return err
	}

	return w.sender.Send(recipient, subject, body)
}

func (w *MailWorker) recipient(ctx context.Context, queued *model.QueuedEmail) (string, error) {
	if queued.RecipientOverride != nil && *queued.RecipientOverride != "" {
		return *queued.RecipientOverride, nil
	}

	account, err := w.accounts.Get(ctx, queued.AccountID)
	if err != nil {
		return "", err
	}
	return account.Email, nil
}

func (w *MailWorker) fail(ctx context.Context, queued *model.QueuedEmail, cause error) {
	var retryAt *time.Time
	if queued.RetryCount+1 < mailMaxRetries {
		next := time.Now().UTC().Add(mailRetryDelay * time.Duration(queued.RetryCount+1))
		retryAt = &next
	}

	if err := w.queue.MarkFailed(ctx, queued.ID, cause.Error(), retryAt); err != nil {
		w.logger.Error().Err(err).Str("email_id", queued.ID.String()).Msg("failed to mark email failed")
	}
	if w.metrics != nil {
		w.metrics.MailFailed.Inc()
	}

	w.logger.Warn().
		Err(cause).
		Str("email_id", queued.ID.String()).
		Str("template", queued.TemplateCode).
		Int("retry_count", queued.RetryCount+1).
		Msg("email delivery failed")
}
