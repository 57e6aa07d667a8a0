package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"eventhub/internal/domain"
)

const (
	minPasswordLen       = 8
	maxNameLen           = 150
	activationTokenBytes = 32
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9_.@+-]{3,150}$`)
)

// AccountConfig holds token lifetimes for the account service.
type AccountConfig struct {
	TokenExpiry   time.Duration
	ActivationTTL time.Duration
}

// AccountService creates accounts and authenticates them. Creation runs the registered
// hooks inside the same transaction as the account insert.
type AccountService struct {
	repos    domain.Repositories
	tx       domain.TxManager
	hasher   domain.PasswordHasher
	issuer   domain.TokenIssuer
	roles    domain.RoleService
	notifier domain.Notifier
	hooks    []domain.AccountCreationHook
	cfg      AccountConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewAccountService creates an AccountService. hooks run in the given order on every
// account creation.
func NewAccountService(
	repos domain.Repositories,
	tx domain.TxManager,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	roles domain.RoleService,
	notifier domain.Notifier,
	hooks []domain.AccountCreationHook,
	cfg AccountConfig,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		repos:    repos,
		tx:       tx,
		hasher:   hasher,
		issuer:   issuer,
		roles:    roles,
		notifier: notifier,
		hooks:    hooks,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp creates an inactive account and sends its activation link.
func (s *AccountService) SignUp(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	params.IsSuperuser = false
	account, token, err := s.create(ctx, params, false)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyAccountCreated(ctx, account, token)
	return account, nil
}

// CreateByAdmin creates an active account. No activation notice is sent.
func (s *AccountService) CreateByAdmin(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	account, _, err := s.create(ctx, params, true)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) create(ctx context.Context, params domain.CreateAccountParams, active bool) (*domain.Account, string, error) {
	params, err := normalizeAccountParams(params)
	if err != nil {
		return nil, "", err
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, "", fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := domain.NewAccount(params.Username, params.Email, params.FirstName, params.LastName, now, now)
	account.PasswordHash = hash
	account.Salt = salt
	account.IsActive = active
	account.IsSuperuser = params.IsSuperuser

	var token string
	err = s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return err
		}
		for _, hook := range s.hooks {
			if err := hook.OnAccountCreated(ctx, repos, account); err != nil {
				return err
			}
		}
		if active {
			return nil
		}
		t, err := generateActivationToken()
		if err != nil {
			return fmt.Errorf("generate activation token: %w", err)
		}
		token = t
		return repos.ActivationTokens.Create(ctx, account.ID, hashToken(t), now.Add(s.cfg.ActivationTTL))
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create account: %w", err)
	}
	s.logger.InfoContext(ctx, "account created", "account_id", account.ID, "active", active)
	return account, token, nil
}

// Activate consumes a single-use activation token. An account that is already active
// is returned unchanged.
func (s *AccountService) Activate(ctx context.Context, token string) (*domain.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	var account *domain.Account
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		now := s.now()
		accountID, err := repos.ActivationTokens.Consume(ctx, hashToken(token), now)
		if err != nil {
			return err
		}
		if _, err := repos.Accounts.Activate(ctx, accountID, now); err != nil {
			return err
		}
		account, err = repos.Accounts.GetByID(ctx, accountID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("activate account: %w", err)
	}
	s.logger.InfoContext(ctx, "account activated", "account_id", account.ID)
	return account, nil
}

// Login authenticates by email or username. Inactive accounts may log in.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (string, *domain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	var (
		account *domain.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.repos.Accounts.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		account, err = s.repos.Accounts.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get account: %w", err)
	}
	if account.PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, account.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	role, err := s.roles.EffectiveRole(ctx, account.ID)
	if err != nil {
		return "", nil, fmt.Errorf("resolve role: %w", err)
	}
	token, err := s.issuer.Issue(account.ID, account.Email, role, s.cfg.TokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repos.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Account, int, error) {
	accounts, total, err := s.repos.Accounts.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, total, nil
}

// UpdateProfile updates the first and last name of the account.
func (s *AccountService) UpdateProfile(ctx context.Context, account *domain.Account) error {
	account.FirstName = strings.TrimSpace(account.FirstName)
	account.LastName = strings.TrimSpace(account.LastName)
	if utf8.RuneCountInString(account.FirstName) > maxNameLen || utf8.RuneCountInString(account.LastName) > maxNameLen {
		return fmt.Errorf("%w: names must be at most %d characters", domain.ErrInvalidInput, maxNameLen)
	}
	account.UpdatedAt = s.now()
	if err := s.repos.Accounts.UpdateNames(ctx, account); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// EnsureBootstrapAdmin creates an active superuser with the given credentials unless an
// account with that email already exists. It reports whether an account was created.
func (s *AccountService) EnsureBootstrapAdmin(ctx context.Context, email, username, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	_, err := s.repos.Accounts.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get account: %w", err)
	}
	if strings.TrimSpace(username) == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	account, err := s.CreateByAdmin(ctx, domain.CreateAccountParams{
		Username:    username,
		Email:       email,
		Password:    password,
		IsSuperuser: true,
	})
	if err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "bootstrap admin created", "account_id", account.ID)
	return true, nil
}

func normalizeAccountParams(p domain.CreateAccountParams) (domain.CreateAccountParams, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	switch {
	case !usernameRegexp.MatchString(p.Username):
		return p, fmt.Errorf("%w: username must be 3-150 letters, digits or @.+-_", domain.ErrInvalidInput)
	case !emailRegexp.MatchString(p.Email):
		return p, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	case utf8.RuneCountInString(p.Password) < minPasswordLen:
		return p, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	case utf8.RuneCountInString(p.FirstName) > maxNameLen || utf8.RuneCountInString(p.LastName) > maxNameLen:
		return p, fmt.Errorf("%w: names must be at most %d characters", domain.ErrInvalidInput, maxNameLen)
	}
	return p, nil
}

func generateActivationToken() (string, error) {
	b := make([]byte, activationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var _ domain.AccountService = (*AccountService)(nil)
