package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Enqueue(ctx context.Context, email *model.QueuedEmail) error {
	query := `
		INSERT INTO mail_queue (id, template_code, account_id, recipient_override, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.GetDB().ExecContext(ctx, query,
		email.ID, email.TemplateCode, email.AccountID, email.RecipientOverride,
		email.Payload, email.Status, email.RetryCount, email.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetPending(ctx context.Context, limit int) ([]*model.QueuedEmail, error) {
	query := `
		SELECT id, template_code, account_id, recipient_override, payload, status, retry_count, last_error, next_retry_at, created_at, sent_at
		FROM mail_queue
		WHERE status IN ($1, $2)
		AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at
		LIMIT $3
	`

	var emails []*model.QueuedEmail
	err := r.GetDB().SelectContext(ctx, &emails, query,
		model.NotificationStatusPending, model.NotificationStatusRetrying, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending emails: %w", err)
	}
	return emails, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE mail_queue
		SET status = $1, sent_at = NOW()
		WHERE id = $2
	`

	_, err := r.GetDB().ExecContext(ctx, query, model.NotificationStatusSent, id)
	if err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	status := model.NotificationStatusFailed
	if retryAt != nil {
		status = model.NotificationStatusRetrying
	}

	query := `
		UPDATE mail_queue
		SET status = $1, last_error = $2, retry_count = retry_count + 1, next_retry_at = $3
		WHERE id = $4
	`

	_, err := r.GetDB().ExecContext(ctx, query, status, errMsg, retryAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark email failed: %w", err)
	}
	return nil
}
