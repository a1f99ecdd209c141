package note

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
)

// Service is the account audit-note sink. It is injected into the
// domain services so tests can assert on emitted events.
type Service struct {
	repo repository.NoteRepository
}

func NewService(repo repository.NoteRepository) *Service {
	return &Service{repo: repo}
}

// Write creates an audit note against an account. subjectID points at
// the entity the event concerns (credential, token, account).
func (s *Service) Write(ctx context.Context, accountID uuid.UUID, eventCode string, subjectID uuid.UUID, noteContext map[string]interface{}, origin model.NoteOrigin) error {
	var contextJSON json.RawMessage
	if noteContext != nil {
		data, err := json.Marshal(noteContext)
		if err != nil {
			return fmt.Errorf("failed to marshal note context: %w", err)
		}
		contextJSON = data
	}

	note := &model.AccountNote{
		ID:        uuid.New(),
		AccountID: accountID,
		EventCode: eventCode,
		SubjectID: subjectID,
		Context:   contextJSON,
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
	}

	return s.repo.Create(ctx, note)
}
