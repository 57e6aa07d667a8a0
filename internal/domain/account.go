package domain

import (
	"context"
	"strings"
	"time"
)

// Account represents an authenticated identity.
// swagger:model Account
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAccount returns a new inactive Account. ID is set by the repository on create.
func NewAccount(username, email, firstName, lastName string, createdAt, updatedAt time.Time) *Account {
	return &Account{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// DisplayName returns "first last", or the username when both names are empty.
func (a *Account) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if full == "" {
		return a.Username
	}
	return full
}

// CreateAccountParams holds the input for creating an account.
type CreateAccountParams struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Password    string
	IsSuperuser bool
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues access tokens for an authenticated account.
type TokenIssuer interface {
	Issue(accountID, email string, role RoleName, expiry time.Duration) (string, error)
}

// TokenVerifier verifies an access token and returns the authenticated account ID.
type TokenVerifier interface {
	Verify(token string) (accountID string, err error)
}

// AccountRepository defines storage operations for accounts.
// Create and UpdateNames return ErrConflict when a unique constraint is violated.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	// LockByID loads the account and holds a row lock until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*Account, error)
	// Activate marks the account active. It reports false when the account was already active.
	Activate(ctx context.Context, id string, at time.Time) (bool, error)
	UpdateNames(ctx context.Context, account *Account) error
	List(ctx context.Context, params PaginationParams) ([]*Account, int, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Account, error)
	Count(ctx context.Context) (int, error)
}

// ActivationTokenRepository stores hashed single-use activation tokens.
type ActivationTokenRepository interface {
	Create(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error
	// Consume marks an unexpired, unconsumed token as used and returns its account ID.
	// It returns ErrInvalidToken when no such token exists.
	Consume(ctx context.Context, tokenHash string, now time.Time) (accountID string, err error)
}

// AccountCreationHook runs inside the account creation transaction, right after the
// account row is written.
type AccountCreationHook interface {
	OnAccountCreated(ctx context.Context, repos Repositories, account *Account) error
}

// AccountService defines account lifecycle and authentication.
type AccountService interface {
	SignUp(ctx context.Context, params CreateAccountParams) (*Account, error)
	CreateByAdmin(ctx context.Context, params CreateAccountParams) (*Account, error)
	Activate(ctx context.Context, token string) (*Account, error)
	Login(ctx context.Context, identifier, password string) (token string, account *Account, err error)
	GetByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context, params PaginationParams) ([]*Account, int, error)
	UpdateProfile(ctx context.Context, account *Account) error
}
