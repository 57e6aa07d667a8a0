package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

// Postgres error codes translated into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Store builds repositories over a connection pool and implements domain.TxManager.
type Store struct {
	DB *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Repositories returns repositories that run outside any transaction.
func (s *Store) Repositories() domain.Repositories {
	return NewRepositories(s.DB)
}

// WithinTx runs fn with repositories bound to one transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(NewRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// NewRepositories returns every repository bound to db, which may be a pool or a transaction.
func NewRepositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Accounts:         NewAccountRepository(db),
		ActivationTokens: NewActivationTokenRepository(db),
		Roles:            NewRoleRepository(db),
		Profiles:         NewLegacyProfileRepository(db),
		Categories:       NewCategoryRepository(db),
		Events:           NewEventRepository(db),
		RSVPs:            NewRSVPRepository(db),
	}
}

func pqErrorCode(err error) (string, string) {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return string(perr.Code), perr.Constraint
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pqErrorCode(err)
	return code == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	code, _ := pqErrorCode(err)
	return code == pqForeignKeyViolation
}

var _ domain.TxManager = (*Store)(nil)
