package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub/internal/domain"
)

type activationTokenRepository struct {
	DB DBTX
}

func NewActivationTokenRepository(db DBTX) domain.ActivationTokenRepository {
	return &activationTokenRepository{DB: db}
}

func (r *activationTokenRepository) Create(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO activation_tokens (account_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, accountID, tokenHash, expiresAt)
	return err
}

// Consume marks the token used in a single statement, so two concurrent activations
// cannot both succeed.
func (r *activationTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	query := `
		UPDATE activation_tokens
		SET consumed_at = $2
		WHERE token_hash = $1 AND consumed_at IS NULL AND expires_at > $2
		RETURNING account_id
	`
	var accountID string
	err := r.DB.QueryRowContext(ctx, query, tokenHash, now).Scan(&accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	return accountID, nil
}
