package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eventhub/internal/domain"
)

// RoleService assigns roles. An account holds at most one membership, so every
// assignment clears the previous one inside the same transaction.
type RoleService struct {
	repos  domain.Repositories
	tx     domain.TxManager
	logger *slog.Logger
}

// NewRoleService returns a RoleService reading through repos and writing through tx.
func NewRoleService(repos domain.Repositories, tx domain.TxManager, logger *slog.Logger) *RoleService {
	return &RoleService{repos: repos, tx: tx, logger: logger}
}

func (s *RoleService) AssignRole(ctx context.Context, accountID, roleName string) error {
	name, err := domain.ParseRoleName(roleName)
	if err != nil {
		return err
	}
	err = s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := repos.Accounts.LockByID(ctx, accountID); err != nil {
			return err
		}
		return setRole(ctx, repos, accountID, name)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("account: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("assign role: %w", err)
	}
	s.logger.InfoContext(ctx, "role assigned", "account_id", accountID, "role", name)
	return nil
}

func (s *RoleService) RemoveRole(ctx context.Context, accountID string) error {
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := repos.Accounts.LockByID(ctx, accountID); err != nil {
			return err
		}
		return repos.Roles.ClearMemberships(ctx, accountID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("account: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("remove role: %w", err)
	}
	s.logger.InfoContext(ctx, "role removed", "account_id", accountID)
	return nil
}

func (s *RoleService) EffectiveRole(ctx context.Context, accountID string) (domain.RoleName, error) {
	account, err := s.repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	roles, err := s.repos.Roles.ListByAccountID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("list roles: %w", err)
	}
	names := make([]domain.RoleName, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return domain.ResolveEffectiveRole(account.IsSuperuser, names), nil
}

func (s *RoleService) CountByRole(ctx context.Context) (map[domain.RoleName]int, error) {
	counts, err := s.repos.Roles.CountMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count role members: %w", err)
	}
	return counts, nil
}

// OnAccountCreated grants Participant to every new account.
func (s *RoleService) OnAccountCreated(ctx context.Context, repos domain.Repositories, account *domain.Account) error {
	if err := setRole(ctx, repos, account.ID, domain.RoleParticipant); err != nil {
		return fmt.Errorf("grant default role: %w", err)
	}
	return nil
}

func setRole(ctx context.Context, repos domain.Repositories, accountID string, name domain.RoleName) error {
	if err := repos.Roles.ClearMemberships(ctx, accountID); err != nil {
		return err
	}
	role, err := repos.Roles.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("role %s: %w", name, err)
	}
	return repos.Roles.AddMembership(ctx, accountID, role.ID)
}

var (
	_ domain.RoleService         = (*RoleService)(nil)
	_ domain.AccountCreationHook = (*RoleService)(nil)
)
