package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
	"github.com/jwalitptl/sso-api/pkg/metrics"
)

// Service enqueues outbound notifications. Delivery happens in the
// mail worker; callers treat this as fire-and-forget.
type Service struct {
	repo    repository.NotificationRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// Enqueue adds a templated email to the queue. recipientOverride
// redirects delivery away from the account's registered address.
func (s *Service) Enqueue(ctx context.Context, templateCode string, accountID uuid.UUID, recipientOverride *string, payload map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	email := &model.QueuedEmail{
		ID:                uuid.New(),
		TemplateCode:      templateCode,
		AccountID:         accountID,
		RecipientOverride: recipientOverride,
		Payload:           payloadJSON,
		Status:            model.NotificationStatusPending,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.Enqueue(ctx, email); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.MailEnqueued.Inc()
	}
	return nil
}
