package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

// RSVPService is the only writer of the RSVP ledger. Every new record, whether submitted by
// the attendee or added by an organizer, goes through record.
type RSVPService struct {
	repos    domain.Repositories
	notifier domain.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewRSVPService returns an RSVPService that notifies through notifier after each new RSVP.
func NewRSVPService(repos domain.Repositories, notifier domain.Notifier, logger *slog.Logger) *RSVPService {
	return &RSVPService{
		repos:    repos,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RSVPService) CreateRSVP(ctx context.Context, accountID, eventID string) (*domain.RSVP, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	account, err := s.repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("account: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return s.record(ctx, account, event)
}

func (s *RSVPService) AddAttendees(ctx context.Context, eventID string, accountIDs ...string) ([]*domain.RSVP, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(accountIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one account is required", domain.ErrInvalidInput)
	}
	accounts, err := s.repos.Accounts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
	}

	added := make([]*domain.RSVP, 0, len(ids))
	for _, id := range ids {
		rsvp, err := s.record(ctx, byID[id], event)
		if errors.Is(err, domain.ErrDuplicateRSVP) {
			continue
		}
		if err != nil {
			return added, err
		}
		added = append(added, rsvp)
	}
	return added, nil
}

// record writes one RSVP and sends the confirmation. The lookup only exits early; the
// unique constraint on (account_id, event_id) decides races.
func (s *RSVPService) record(ctx context.Context, account *domain.Account, event *domain.Event) (*domain.RSVP, error) {
	_, err := s.repos.RSVPs.GetByAccountAndEvent(ctx, account.ID, event.ID)
	if err == nil {
		return nil, domain.ErrDuplicateRSVP
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	rsvp := domain.NewRSVP(account.ID, event.ID, s.now())
	if err := s.repos.RSVPs.Create(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrDuplicateRSVP) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	s.logger.InfoContext(ctx, "rsvp created", "account_id", account.ID, "event_id", event.ID)

	count, err := s.repos.RSVPs.CountByEventID(ctx, event.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "count attendees for notification", "event_id", event.ID, "err", err)
		return rsvp, nil
	}
	s.notifier.NotifyRSVPConfirmed(ctx, account, event, count)
	return rsvp, nil
}

func (s *RSVPService) CancelRSVP(ctx context.Context, accountID, eventID string) error {
	if err := s.repos.RSVPs.Delete(ctx, accountID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("rsvp: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("delete rsvp: %w", err)
	}
	s.logger.InfoContext(ctx, "rsvp cancelled", "account_id", accountID, "event_id", eventID)
	return nil
}

func (s *RSVPService) AttendeeCount(ctx context.Context, eventID string) (int, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return 0, err
	}
	count, err := s.repos.RSVPs.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return count, nil
}

func (s *RSVPService) ListMyRSVPs(ctx context.Context, accountID string) ([]*domain.RSVPWithEvent, error) {
	list, err := s.repos.RSVPs.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return list, nil
}

func (s *RSVPService) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	attendees, err := s.repos.RSVPs.ListAttendees(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

func (s *RSVPService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// uniqueIDs drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

var _ domain.RSVPService = (*RSVPService)(nil)
