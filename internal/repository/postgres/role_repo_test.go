package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func TestRoleRepository_GetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name\s+FROM roles\s+WHERE name = \$1`).
		WithArgs("Organizer").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("role-2", "Organizer"))
	mock.ExpectQuery(`FROM roles`).
		WithArgs("Participant").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	repo := NewRoleRepository(db)
	role, err := repo.GetByName(context.Background(), domain.RoleOrganizer)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOrganizer, role.Name)

	_, err = repo.GetByName(context.Background(), domain.RoleParticipant)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_ListByAccountID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INNER JOIN account_roles ar ON ar.role_id = r.id`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("role-3", "Participant"))

	roles, err := NewRoleRepository(db).ListByAccountID(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, domain.RoleParticipant, roles[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_Memberships(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		run   func(repo domain.RoleRepository) error
		errIs error
	}{
		{
			name: "add membership ignores existing row",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO account_roles \(account_id, role_id\)\s+VALUES \(\$1, \$2\)\s+ON CONFLICT`).
					WithArgs("acc-1", "role-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			run: func(repo domain.RoleRepository) error { return repo.AddMembership(ctx, "acc-1", "role-1") },
		},
		{
			name: "add membership for deleted account",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO account_roles`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			run:   func(repo domain.RoleRepository) error { return repo.AddMembership(ctx, "gone", "role-1") },
			errIs: domain.ErrNotFound,
		},
		{
			name: "clear memberships",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM account_roles WHERE account_id = \$1`).
					WithArgs("acc-1").
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
			run: func(repo domain.RoleRepository) error { return repo.ClearMemberships(ctx, "acc-1") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = tt.run(NewRoleRepository(db))
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRoleRepository_CountMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`GROUP BY r.name`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "count"}).
			AddRow("Admin", 1).
			AddRow("Participant", 7))

	counts, err := NewRoleRepository(db).CountMembers(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[domain.RoleName]int{
		domain.RoleAdmin:       1,
		domain.RoleOrganizer:   0,
		domain.RoleParticipant: 7,
	}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
