package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventhub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendAccountActivation sends the activation link using the "account_activation" template.
func (s *emailService) SendAccountActivation(ctx context.Context, data *domain.AccountActivationEmailData) error {
	if data == nil {
		return fmt.Errorf("account activation data is nil")
	}
	return s.send(ctx, "account_activation", data.Email, data)
}

// SendRSVPConfirmation sends the RSVP confirmation using the "rsvp_confirmation" template.
func (s *emailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmation data is nil")
	}
	return s.send(ctx, "rsvp_confirmation", data.Email, data)
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
