package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventhub/internal/domain"
)

type roleRepository struct {
	DB DBTX
}

func NewRoleRepository(db DBTX) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	query := `
		SELECT id, name
		FROM roles
		WHERE name = $1
	`
	role := &domain.Role{}
	err := r.DB.QueryRowContext(ctx, query, string(name)).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) ListByAccountID(ctx context.Context, accountID string) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		INNER JOIN account_roles ar ON ar.role_id = r.id
		WHERE ar.account_id = $1
	`
	rows, err := r.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) AddMembership(ctx context.Context, accountID, roleID string) error {
	query := `
		INSERT INTO account_roles (account_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, role_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, accountID, roleID)
	if err != nil && isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *roleRepository) ClearMemberships(ctx context.Context, accountID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM account_roles WHERE account_id = $1`, accountID)
	return err
}

func (r *roleRepository) CountMembers(ctx context.Context) (map[domain.RoleName]int, error) {
	query := `
		SELECT r.name, COUNT(ar.account_id)
		FROM roles r
		LEFT JOIN account_roles ar ON ar.role_id = r.id
		GROUP BY r.name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RoleName]int, len(domain.AssignableRoles))
	for _, name := range domain.AssignableRoles {
		counts[name] = 0
	}
	for rows.Next() {
		var name domain.RoleName
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
