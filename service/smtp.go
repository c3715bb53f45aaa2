package service

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/yusimeilanyy/intern-project/config"
)

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one message. There is no retry and no timeout beyond the
// dialer's own; the dispatcher treats a failure as logged-and-counted.
func (m *SMTPMailer) Send(ctx context.Context, mail *Mail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	if len(mail.To) > 0 {
		msg.SetHeader("To", mail.To...)
	}
	if len(mail.CC) > 0 {
		msg.SetHeader("Cc", mail.CC...)
	}
	if len(mail.BCC) > 0 {
		msg.SetHeader("Bcc", mail.BCC...)
	}
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.Body)

	return m.dialer.DialAndSend(msg)
}
