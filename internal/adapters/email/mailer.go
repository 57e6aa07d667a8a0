package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventhub/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// sesAPI is the part of *ses.Client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES; "noop" or unknown uses a no-op mailer.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case "ses":
		if config.FromAddress == "" {
			return nil, fmt.Errorf("ses mailer: from address is required")
		}
		sesConfig := config.SES
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return newSESMailer(ses.NewFromConfig(awsCfg), config.FromAddress, config.FromName, logger), nil
	case "noop", "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

type sesMailer struct {
	client sesAPI
	source string
	logger *slog.Logger
}

func newSESMailer(client sesAPI, fromAddress, fromName string, logger *slog.Logger) *sesMailer {
	source := fromAddress
	if fromName != "" {
		source = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &sesMailer{client: client, source: source, logger: logger}
}

func utf8Content(s string) *types.Content {
	return &types.Content{
		Data:    aws.String(s),
		Charset: aws.String("UTF-8"),
	}
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body:    &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = utf8Content(html)
	}
	if text != "" {
		input.Message.Body.Text = utf8Content(text)
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.DebugContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.logger.InfoContext(ctx, "email would be sent (noop)", "to", to, "subject", subject)
	return nil
}
