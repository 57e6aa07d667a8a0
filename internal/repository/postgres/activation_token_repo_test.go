package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func TestActivationTokenRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exp := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO activation_tokens`).
		WithArgs("acc-1", "hash", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewActivationTokenRepository(db).Create(context.Background(), "acc-1", "hash", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivationTokenRepository_Consume(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid token", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE activation_tokens\s+SET consumed_at = \$2`).
			WithArgs("hash", now).
			WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow("acc-1"))

		id, err := NewActivationTokenRepository(db).Consume(context.Background(), "hash", now)
		require.NoError(t, err)
		require.Equal(t, "acc-1", id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("used or expired token", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE activation_tokens`).
			WithArgs("hash", now).
			WillReturnRows(sqlmock.NewRows([]string{"account_id"}))

		_, err = NewActivationTokenRepository(db).Consume(context.Background(), "hash", now)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
