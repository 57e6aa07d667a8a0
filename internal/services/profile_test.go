package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func TestProfileSynchronizer_NewAccount(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	account, err := h.accounts.SignUp(ctx, domain.CreateAccountParams{
		Username:  "alice",
		Email:     "alice@x.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  "password123",
	})
	require.NoError(t, err)

	profile, err := h.profiles.GetByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", profile.Name)
	assert.Equal(t, "alice@x.com", profile.Email)
	require.True(t, profile.Linked())
	assert.Equal(t, account.ID, *profile.AccountID)
}

func TestProfileSynchronizer_ExistingEmailLeftUnlinked(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.store.addProfile(domain.LegacyProfile{Name: "Old Alice", Email: "alice@x.com", RegisteredAt: time.Now()})

	account := h.signUp(t, "alice")

	_, err := h.profiles.GetByAccount(ctx, account.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	require.Len(t, h.store.profiles, 1)
	assert.Equal(t, "Old Alice", h.store.profiles[0].Name)
	assert.False(t, h.store.profiles[0].Linked())
}

func TestProfileSynchronizer_ExistingEmailMatchesAnyCase(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.store.addProfile(domain.LegacyProfile{Name: "Old Alice", Email: "Alice@X.com", RegisteredAt: time.Now()})

	account, err := h.accounts.SignUp(ctx, domain.CreateAccountParams{
		Username: "alice",
		Email:    "ALICE@x.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", account.Email)

	_, err = h.profiles.GetByAccount(ctx, account.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	require.Len(t, h.store.profiles, 1)
	assert.Equal(t, "Alice@X.com", h.store.profiles[0].Email)
	assert.False(t, h.store.profiles[0].Linked())
}

func TestProfileSynchronizer_HookIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	account := h.signUp(t, "alice")

	err := h.store.WithinTx(ctx, func(repos domain.Repositories) error {
		return h.profiles.OnAccountCreated(ctx, repos, account)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.linkedProfiles(account.ID))
}

func TestProfileSynchronizer_RacingInsertIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	synchronizer := NewProfileSynchronizer(store.Repositories().Profiles, testLogger())
	account := store.seedAccount("alice", false)

	// A profile for the same email lands between the existence check and the insert.
	repos := store.Repositories()
	repos.Profiles = racingProfiles{LegacyProfileRepository: repos.Profiles, store: store}

	require.NoError(t, synchronizer.OnAccountCreated(ctx, repos, account))
	assert.Zero(t, store.linkedProfiles(account.ID))
}

type racingProfiles struct {
	domain.LegacyProfileRepository
	store *memStore
}

func (r racingProfiles) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.store.addProfile(domain.LegacyProfile{Name: "racer", Email: email})
	return false, nil
}
