package domain

import "context"

// Notifier delivers best-effort notices after the triggering write has committed.
// Implementations never return or panic on delivery failure.
type Notifier interface {
	NotifyAccountCreated(ctx context.Context, account *Account, activationToken string)
	NotifyRSVPConfirmed(ctx context.Context, account *Account, event *Event, attendeeCount int)
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// AccountActivationEmailData holds data for the account activation email.
type AccountActivationEmailData struct {
	Email          string
	Name           string
	ActivationLink string
	ExpiresInHours int
	SiteURL        string
}

// RSVPConfirmationEmailData holds data for the RSVP confirmation email.
type RSVPConfirmationEmailData struct {
	Email         string
	Name          string
	EventName     string
	CategoryName  string
	Date          string
	Time          string
	Location      string
	Excerpt       string
	AttendeeCount int
	DashboardURL  string
	SiteURL       string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendAccountActivation(ctx context.Context, data *AccountActivationEmailData) error
	SendRSVPConfirmation(ctx context.Context, data *RSVPConfirmationEmailData) error
}
