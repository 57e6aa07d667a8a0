package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventhub/internal/domain"
)

type legacyProfileRepository struct {
	DB DBTX
}

func NewLegacyProfileRepository(db DBTX) domain.LegacyProfileRepository {
	return &legacyProfileRepository{DB: db}
}

// ExistsByEmail matches emails case-insensitively.
func (r *legacyProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM legacy_profiles WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, err
}

// CreateIfAbsent relies on the unique email and account_id constraints. A conflicting row
// leaves the existing profile untouched and reports false.
func (r *legacyProfileRepository) CreateIfAbsent(ctx context.Context, p *domain.LegacyProfile) (bool, error) {
	query := `
		INSERT INTO legacy_profiles (name, email, account_id, registered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING id
	`
	var accountID sql.NullString
	if p.AccountID != nil {
		accountID = sql.NullString{String: *p.AccountID, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query, p.Name, p.Email, accountID, p.RegisteredAt).Scan(&p.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *legacyProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.LegacyProfile, error) {
	query := `
		SELECT id, name, email, account_id, registered_at
		FROM legacy_profiles
		WHERE account_id = $1
	`
	p := &domain.LegacyProfile{}
	var linked sql.NullString
	err := r.DB.QueryRowContext(ctx, query, accountID).Scan(&p.ID, &p.Name, &p.Email, &linked, &p.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if linked.Valid {
		p.AccountID = &linked.String
	}
	return p, nil
}
