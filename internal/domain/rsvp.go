package domain

import (
	"context"
	"time"
)

// RSVP records an account's intent to attend an event. (AccountID, EventID) is unique.
// swagger:model RSVP
type RSVP struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	EventID     string    `json:"event_id"`
	RespondedAt time.Time `json:"responded_at"`
}

// NewRSVP returns a new RSVP. ID is typically set by the repository on create.
func NewRSVP(accountID, eventID string, respondedAt time.Time) *RSVP {
	return &RSVP{
		AccountID:   accountID,
		EventID:     eventID,
		RespondedAt: respondedAt,
	}
}

// RSVPWithEvent bundles an RSVP with its event.
type RSVPWithEvent struct {
	RSVP  *RSVP  `json:"rsvp"`
	Event *Event `json:"event"`
}

// Attendee is an account listed on an event's RSVP ledger.
type Attendee struct {
	Account     *Account  `json:"account"`
	RespondedAt time.Time `json:"responded_at"`
}

// RSVPRepository defines storage for the RSVP ledger.
type RSVPRepository interface {
	// Create returns ErrDuplicateRSVP when (account, event) already exists and ErrNotFound
	// when either side no longer exists.
	Create(ctx context.Context, rsvp *RSVP) error
	GetByAccountAndEvent(ctx context.Context, accountID, eventID string) (*RSVP, error)
	Delete(ctx context.Context, accountID, eventID string) error
	CountByEventID(ctx context.Context, eventID string) (int, error)
	ListByAccountID(ctx context.Context, accountID string) ([]*RSVPWithEvent, error)
	ListAttendees(ctx context.Context, eventID string) ([]*Attendee, error)
	Count(ctx context.Context) (int, error)
}

// RSVPService is the single write path for attendance.
type RSVPService interface {
	CreateRSVP(ctx context.Context, accountID, eventID string) (*RSVP, error)
	// AddAttendees adds accounts to the event's attendee set. Accounts already present are
	// skipped. Returns the RSVPs that were created.
	AddAttendees(ctx context.Context, eventID string, accountIDs ...string) ([]*RSVP, error)
	CancelRSVP(ctx context.Context, accountID, eventID string) error
	AttendeeCount(ctx context.Context, eventID string) (int, error)
	ListMyRSVPs(ctx context.Context, accountID string) ([]*RSVPWithEvent, error)
	ListAttendees(ctx context.Context, eventID string) ([]*Attendee, error)
}
