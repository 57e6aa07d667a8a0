package domain

import (
	"context"
	"time"
)

// LegacyProfile is the denormalized participant record kept for data that predates
// accounts. A profile without AccountID is read-only.
// swagger:model LegacyProfile
type LegacyProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AccountID    *string   `json:"account_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Linked reports whether the profile belongs to an account.
func (p *LegacyProfile) Linked() bool {
	return p.AccountID != nil && *p.AccountID != ""
}

// LegacyProfileRepository defines storage for legacy profiles.
type LegacyProfileRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateIfAbsent inserts the profile unless one with the same email or account exists.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, profile *LegacyProfile) (bool, error)
	GetByAccountID(ctx context.Context, accountID string) (*LegacyProfile, error)
}

// ProfileService exposes the legacy profile linked to an account.
type ProfileService interface {
	GetByAccount(ctx context.Context, accountID string) (*LegacyProfile, error)
}
