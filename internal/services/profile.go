package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

// ProfileSynchronizer keeps one legacy profile per account.
type ProfileSynchronizer struct {
	profiles domain.LegacyProfileRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewProfileSynchronizer returns a ProfileSynchronizer reading through profiles.
func NewProfileSynchronizer(profiles domain.LegacyProfileRepository, logger *slog.Logger) *ProfileSynchronizer {
	return &ProfileSynchronizer{profiles: profiles, logger: logger, now: time.Now}
}

// OnAccountCreated links a new profile to the account unless a profile with the same
// email already exists. An existing profile is left untouched and unlinked.
func (s *ProfileSynchronizer) OnAccountCreated(ctx context.Context, repos domain.Repositories, account *domain.Account) error {
	exists, err := repos.Profiles.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return fmt.Errorf("check legacy profile: %w", err)
	}
	if exists {
		s.logger.InfoContext(ctx, "legacy profile exists, not linking", "account_id", account.ID)
		return nil
	}
	accountID := account.ID
	profile := &domain.LegacyProfile{
		Name:         account.DisplayName(),
		Email:        account.Email,
		AccountID:    &accountID,
		RegisteredAt: s.now(),
	}
	created, err := repos.Profiles.CreateIfAbsent(ctx, profile)
	if err != nil {
		return fmt.Errorf("create legacy profile: %w", err)
	}
	if !created {
		s.logger.InfoContext(ctx, "legacy profile created concurrently, not linking", "account_id", account.ID)
	}
	return nil
}

func (s *ProfileSynchronizer) GetByAccount(ctx context.Context, accountID string) (*domain.LegacyProfile, error) {
	profile, err := s.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

var (
	_ domain.ProfileService      = (*ProfileSynchronizer)(nil)
	_ domain.AccountCreationHook = (*ProfileSynchronizer)(nil)
)
