package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
)

type securityRepository struct {
	BaseRepository
}

func NewSecurityRepository(base BaseRepository) repository.SecurityRepository {
	return &securityRepository{base}
}

func (r *securityRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.SecondaryCredential, error) {
	query := `
		SELECT id, account_id, type, value, created_at, expires_at
		FROM account_security
		WHERE account_id = $1
	`

	var cred model.SecondaryCredential
	err := r.GetDB().GetContext(ctx, &cred, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secondary credential: %w", err)
	}

	return &cred, nil
}

// Replace runs delete-then-insert in one transaction so two concurrent
// resets cannot leave two live rows for the same account.
func (r *securityRepository) Replace(ctx context.Context, cred *model.SecondaryCredential) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM account_security WHERE account_id = $1`, cred.AccountID); err != nil {
			return fmt.Errorf("failed to delete old credential: %w", err)
		}

		query := `
			INSERT INTO account_security (id, account_id, type, value, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query,
			cred.ID, cred.AccountID, cred.Type, cred.Value, cred.CreatedAt, cred.ExpiresAt); err != nil {
			return fmt.Errorf("failed to insert credential: %w", err)
		}
		return nil
	})
}

func (r *securityRepository) Delete(ctx context.Context, accountID uuid.UUID) (bool, error) {
	result, err := r.GetDB().ExecContext(ctx,
		`DELETE FROM account_security WHERE account_id = $1`, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete credential: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
