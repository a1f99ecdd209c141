package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
)

type noteRepository struct {
	BaseRepository
}

func NewNoteRepository(base BaseRepository) repository.NoteRepository {
	return &noteRepository{base}
}

func (r *noteRepository) Create(ctx context.Context, note *model.AccountNote) error {
	query := `
		INSERT INTO account_notes (id, account_id, event_code, subject_id, context, origin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.GetDB().ExecContext(ctx, query,
		note.ID, note.AccountID, note.EventCode, note.SubjectID, note.Context, note.Origin, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account note: %w", err)
	}
	return nil
}
