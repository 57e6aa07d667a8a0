package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

const accountColumns = `id, username, email, first_name, last_name, password_hash, salt, is_active, is_superuser, created_at, updated_at`

type accountRepository struct {
	DB DBTX
}

func NewAccountRepository(db DBTX) domain.AccountRepository {
	return &accountRepository{DB: db}
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash, &a.Salt,
		&a.IsActive, &a.IsSuperuser, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// accountConflict names the violated constraint so callers can tell email from username.
func accountConflict(err error) error {
	_, constraint := pqErrorCode(err)
	switch constraint {
	case "accounts_email_key":
		return fmt.Errorf("%w: email already in use", domain.ErrConflict)
	case "accounts_username_key":
		return fmt.Errorf("%w: username already in use", domain.ErrConflict)
	}
	return fmt.Errorf("%w: account already exists", domain.ErrConflict)
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (username, email, first_name, last_name, password_hash, salt, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.Salt,
		a.IsActive, a.IsSuperuser, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return accountConflict(err)
		}
		return err
	}
	return nil
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *accountRepository) LockByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *accountRepository) Activate(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `UPDATE accounts SET is_active = TRUE, updated_at = $2 WHERE id = $1 AND is_active = FALSE`
	result, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *accountRepository) UpdateNames(ctx context.Context, a *domain.Account) error {
	query := `
		UPDATE accounts
		SET first_name = $1, last_name = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, a.FirstName, a.LastName, a.UpdatedAt, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return accountConflict(err)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]*domain.Account, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Account, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	accounts, err := r.queryAccounts(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// ListByIDs returns the accounts among ids that exist, in no particular order.
func (r *accountRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	if len(ids) == 0 {
		return []*domain.Account{}, nil
	}
	return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1)`, pq.Array(ids))
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}
