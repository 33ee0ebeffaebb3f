package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"venue-booking/pkg/utils"
)

type sendMailFunc func(ctx context.Context, msg *mail.Msg) error

// EmailSender delivers messages over SMTP as multipart text and HTML.
type EmailSender struct {
	cfg      utils.EmailConfig
	venue    string
	sendMail sendMailFunc
	log      *zap.Logger
}

func NewEmailSender(cfg utils.EmailConfig, log *zap.Logger) *EmailSender {
	venue := cfg.FromName
	if venue == "" {
		venue = "Venue"
	}
	s := &EmailSender{
		cfg:   cfg,
		venue: venue,
		log:   log.With(zap.String("sender", "email")),
	}
	s.sendMail = s.dialAndSend
	return s
}

func (s *EmailSender) Channel() string { return "email" }

func (s *EmailSender) Accepts(msg Message) bool {
	return msg.Recipient != ""
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	content, err := render(s.venue, msg)
	if err != nil {
		return err
	}

	// no SMTP server configured: log the mail instead, useful in development
	if s.cfg.Host == "" {
		s.log.Info("SMTP not configured, email logged only",
			zap.String("to", msg.Recipient),
			zap.String("subject", content.Subject),
			zap.String("body", content.Text),
		)
		return nil
	}

	m, err := s.buildMessage(msg.Recipient, content)
	if err != nil {
		return err
	}

	if err := s.sendMail(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.Recipient, err)
	}
	return nil
}

func (s *EmailSender) buildMessage(to string, content rendered) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender %q: %w", s.cfg.From, err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("set recipient %q: %w", to, err)
	}
	m.Subject(content.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, content.Text)
	m.AddAlternativeString(mail.TypeTextHTML, content.HTML)
	return m, nil
}

func (s *EmailSender) dialAndSend(ctx context.Context, m *mail.Msg) error {
	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if s.cfg.Port > 0 {
		opts = append(opts, mail.WithPort(s.cfg.Port))
	}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, m)
}
