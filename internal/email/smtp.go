package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds outbound mail server settings
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" mapstructure:"host"`
	Port     int    `envconfig:"SMTP_PORT" mapstructure:"port" default:"587"`
	Username string `envconfig:"SMTP_USERNAME" mapstructure:"username"`
	Password string `envconfig:"SMTP_PASSWORD" mapstructure:"password"`
	From     string `envconfig:"SMTP_FROM" mapstructure:"from"`
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns a Sender delivering through the configured
// SMTP relay.
func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
