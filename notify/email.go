package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"contactus-backend/config"
	"contactus-backend/models"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email sends a plain-text summary of each submission to the staff inbox.
type Email struct {
	cfg    config.EmailConfig
	dialer sender
}

func NewEmail(cfg config.EmailConfig) *Email {
	d := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	d.SSL = cfg.SMTP.UseTLS
	if cfg.SMTP.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.SMTP.Host}
	}
	return &Email{cfg: cfg, dialer: d}
}

func (e *Email) Notify(ctx context.Context, sub models.ContactSubmission) error {
	msg := BuildMessage(e.cfg.From, e.cfg.To, sub)

	done := make(chan error, 1)
	go func() {
		done <- e.dialer.DialAndSend(msg)
	}()

	// Respect ctx deadline if it's sooner than the SMTP timeout.
	wait := e.cfg.SMTP.Timeout()
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send contact email for #%d: %w", sub.ID, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func (e *Email) Close() error { return nil }

func BuildMessage(from string, to []string, sub models.ContactSubmission) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetAddressHeader("Reply-To", sub.Email, sub.Name)
	msg.SetHeader("Subject", fmt.Sprintf("[Contact #%d] %s", sub.ID, sub.Subject))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nPreferred contact: %s\nReceived: %s\n\n%s\n",
		sub.Name, sub.Email, orDash(sub.Phone), orDash(sub.ContactMethod),
		sub.CreatedAt.UTC().Format(time.RFC3339), sub.Inquiry,
	))
	return msg
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
