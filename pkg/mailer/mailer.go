// Package mailer delivers newsletters over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/retry"
)

// ErrNotConfigured is returned by Send when SMTP settings or MAIL_FROM are missing.
var ErrNotConfigured = errors.New("smtp is not configured")

// implicitTLSPort is the SMTPS port; every other port negotiates STARTTLS when offered.
const implicitTLSPort = 465

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, email models.Email) error
}

type smtpSender struct {
	cfg    config.SMTPConfig
	retry  *retry.Config
	logger *zap.Logger
}

var _ Sender = (*smtpSender)(nil)

// NewSMTPSender creates a Sender for cfg. Missing settings are reported on Send,
// so the server can start and surface them through the config health endpoint.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	return &smtpSender{
		cfg:    cfg,
		retry:  retry.RemoteConfig(),
		logger: logger.Named("mailer"),
	}
}

// Send builds a multipart text/html message and delivers it, retrying transient SMTP failures.
func (s *smtpSender) Send(ctx context.Context, email models.Email) error {
	if missing := s.cfg.MissingVars(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	msg, err := BuildMessage(s.cfg.From, email)
	if err != nil {
		return err
	}

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	err = retry.DoIfRetryable(ctx, s.retry, func() error {
		return client.DialAndSendWithContext(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent",
		zap.String("to", logging.MaskEmail(email.To)),
		zap.String("subject", logging.TruncateString(email.Subject, 80)))
	return nil
}

func (s *smtpSender) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Pass),
	}
	if s.cfg.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

// BuildMessage assembles a message with a plain-text body and an HTML alternative.
func BuildMessage(from string, email models.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Text)
	if email.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	}
	return msg, nil
}
