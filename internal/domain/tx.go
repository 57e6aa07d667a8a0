package domain

import "context"

// Repositories groups the stores that take part in one unit of work.
type Repositories struct {
	Accounts         AccountRepository
	ActivationTokens ActivationTokenRepository
	Roles            RoleRepository
	Profiles         LegacyProfileRepository
	Categories       CategoryRepository
	Events           EventRepository
	RSVPs            RSVPRepository
}

// TxManager runs fn against repositories bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
