package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

var _ core.Mailer = (*SMTPMailer)(nil)

// SMTPMailer delivers mail through an authenticated SMTP transport.
// The underlying client is constructed once at startup and is safe for
// concurrent use by in-flight requests.
type SMTPMailer struct {
	client *mail.Client
}

func New(cfg config.MailConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTPMailer{client: client}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg *core.MailMessage) error {
	mm := mail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := mm.To(msg.To...); err != nil {
		return fmt.Errorf("setting recipients: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
