package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/rs/zerolog/log"

	"expohub/config"
)

const sendTimeout = 10 * time.Second

// Mailer delivers transactional email. Delivery failures are reported to the
// caller but are never fatal to the request that triggered them.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, text, html string) error
}

type mailerSendImpl struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func (m *mailerSendImpl) Send(ctx context.Context, toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	if _, err := m.client.Email.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// devMailer logs instead of sending. Used when no MailerSend API key is
// configured, so local environments need no external account.
type devMailer struct{}

func (d *devMailer) Send(_ context.Context, toEmail, toName, subject, text, _ string) error {
	log.Info().
		Str("to", toEmail).
		Str("name", toName).
		Str("subject", subject).
		Str("body", text).
		Msg("[DEV MAIL] email suppressed, MailerSend not configured")

	return nil
}

func New(config *config.Config) Mailer {
	apiKey := config.External.MailerSend.APIKey
	fromEmail := config.External.MailerSend.FromEmail

	if apiKey == "" || fromEmail == "" {
		log.Warn().Msg("MailerSend not configured, falling back to dev mailer")

		return &devMailer{}
	}

	return &mailerSendImpl{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  config.External.MailerSend.FromName,
			Email: fromEmail,
		},
	}
}
