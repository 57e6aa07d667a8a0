package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"eventhub/internal/domain"
)

const excerptLength = 150

// NotifierConfig configures links and delivery limits for notification emails.
type NotifierConfig struct {
	SiteURL       string
	ActivationTTL time.Duration
	Timeout       time.Duration
}

type emailNotifier struct {
	emails domain.EmailService
	cfg    NotifierConfig
	logger *slog.Logger
}

// NewEmailNotifier returns a Notifier that delivers through emails. Delivery failures are
// logged and dropped.
func NewEmailNotifier(emails domain.EmailService, cfg NotifierConfig, logger *slog.Logger) domain.Notifier {
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &emailNotifier{emails: emails, cfg: cfg, logger: logger}
}

func (n *emailNotifier) NotifyAccountCreated(ctx context.Context, account *domain.Account, activationToken string) {
	ctx, cancel := n.deliveryContext(ctx)
	defer cancel()
	defer n.recoverPanic(ctx, "account_activation", account.ID)

	data := &domain.AccountActivationEmailData{
		Email:          account.Email,
		Name:           account.DisplayName(),
		ActivationLink: n.cfg.SiteURL + "/auth/activate?token=" + url.QueryEscape(activationToken),
		ExpiresInHours: int(n.cfg.ActivationTTL.Hours()),
		SiteURL:        n.cfg.SiteURL,
	}
	if err := n.emails.SendAccountActivation(ctx, data); err != nil {
		n.fail(ctx, "account_activation", account.ID, err)
	}
}

func (n *emailNotifier) NotifyRSVPConfirmed(ctx context.Context, account *domain.Account, event *domain.Event, attendeeCount int) {
	ctx, cancel := n.deliveryContext(ctx)
	defer cancel()
	defer n.recoverPanic(ctx, "rsvp_confirmation", account.ID)

	data := &domain.RSVPConfirmationEmailData{
		Email:         account.Email,
		Name:          account.DisplayName(),
		EventName:     event.Name,
		CategoryName:  event.CategoryName,
		Date:          event.Date.Format("Monday, January 2, 2006"),
		Time:          displayTime(event.Time),
		Location:      event.Location,
		Excerpt:       excerpt(event.Description, excerptLength),
		AttendeeCount: attendeeCount,
		DashboardURL:  n.cfg.SiteURL + "/users/me/rsvps",
		SiteURL:       n.cfg.SiteURL,
	}
	if err := n.emails.SendRSVPConfirmation(ctx, data); err != nil {
		n.fail(ctx, "rsvp_confirmation", account.ID, err)
	}
}

// deliveryContext keeps request values but not its cancellation, and bounds delivery time.
func (n *emailNotifier) deliveryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if n.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, n.cfg.Timeout)
}

func (n *emailNotifier) fail(ctx context.Context, kind, accountID string, err error) {
	err = fmt.Errorf("%w: %s: %w", domain.ErrNotificationDelivery, kind, err)
	n.logger.ErrorContext(ctx, "notification dropped", "kind", kind, "account_id", accountID, "err", err)
}

func (n *emailNotifier) recoverPanic(ctx context.Context, kind, accountID string) {
	if r := recover(); r != nil {
		n.fail(ctx, kind, accountID, fmt.Errorf("panic: %v", r))
	}
}

// displayTime renders "18:30:00" as "6:30 PM". Unparseable input is returned as is.
func displayTime(hms string) string {
	t, err := time.Parse("15:04:05", hms)
	if err != nil {
		return hms
	}
	return t.Format("3:04 PM")
}

func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "..."
}
