package postgres

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/sso-api/internal/model"
	"github.com/jwalitptl/sso-api/internal/repository"
)

var ErrTokenNotRedeemable = errors.New("token not found or already redeemed")

type tokenRepository struct {
	BaseRepository
}

func NewTokenRepository(base BaseRepository) repository.TokenRepository {
	return &tokenRepository{base}
}

func (r *tokenRepository) Issue(ctx context.Context, accountID uuid.UUID, purpose model.TokenPurpose, validity time.Duration) (*model.ResetToken, error) {
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token code: %w", err)
	}

	now := time.Now().UTC()
	token := &model.ResetToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(validity),
	}

	query := `
		INSERT INTO sys_tokens (id, account_id, code, purpose, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.GetDB().ExecContext(ctx, query,
		token.ID, token.AccountID, token.Code, token.Purpose, token.CreatedAt, token.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

func (r *tokenRepository) GetByCode(ctx context.Context, code string, purpose model.TokenPurpose) (*model.ResetToken, error) {
	query := `
		SELECT id, account_id, code, purpose, created_at, expires_at, redeemed_at
		FROM sys_tokens
		WHERE code = $1 AND purpose = $2
	`

	var token model.ResetToken
	err := r.GetDB().GetContext(ctx, &token, query, code, purpose)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &token, nil
}

func (r *tokenRepository) Redeem(ctx context.Context, code string) error {
	query := `
		UPDATE sys_tokens
		SET redeemed_at = NOW()
		WHERE code = $1 AND redeemed_at IS NULL
	`

	result, err := r.GetDB().ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to redeem token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTokenNotRedeemable
	}
	return nil
}

func (r *tokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sys_tokens
		WHERE expires_at < $1 OR redeemed_at IS NOT NULL
	`

	result, err := r.GetDB().ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}

func generateCode() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
