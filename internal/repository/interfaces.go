package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/sso-api/internal/model"
)

// All repository interfaces in one file
type (
	// AccountRepository reads primary accounts. This subsystem never
	// writes them.
	AccountRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
	}

	// SecurityRepository persists secondary credentials. Lookups
	// return (nil, nil) when no credential exists; absence is a normal
	// state, not an error.
	SecurityRepository interface {
		GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.SecondaryCredential, error)
		// Replace deletes any existing credential for the account and
		// inserts the new one in a single transaction.
		Replace(ctx context.Context, cred *model.SecondaryCredential) error
		// Delete removes the credential if present and reports whether
		// a row existed.
		Delete(ctx context.Context, accountID uuid.UUID) (bool, error)
	}

	// NoteRepository persists account audit notes.
	NoteRepository interface {
		Create(ctx context.Context, note *model.AccountNote) error
	}

	// TokenRepository issues and redeems single-use system tokens.
	TokenRepository interface {
		Issue(ctx context.Context, accountID uuid.UUID, purpose model.TokenPurpose, validity time.Duration) (*model.ResetToken, error)
		GetByCode(ctx context.Context, code string, purpose model.TokenPurpose) (*model.ResetToken, error)
		Redeem(ctx context.Context, code string) error
		DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	// NotificationRepository is the outbound mail queue.
	NotificationRepository interface {
		Enqueue(ctx context.Context, email *model.QueuedEmail) error
		GetPending(ctx context.Context, limit int) ([]*model.QueuedEmail, error)
		MarkSent(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
	}
)
