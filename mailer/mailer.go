// Package mailer sends newsletter verification mail. The SMTP client is
// deliberately thin; anything fancier belongs in a delivery provider.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/goliatone/go-errors"
)

// Mailer delivers transactional mail
type Mailer interface {
	SendVerification(to, code string) error
	SendWelcome(to string) error
}

// SMTPMailer sends through a plain SMTP relay with AUTH PLAIN.
type SMTPMailer struct {
	Host    string
	Port    string
	User    string
	Pass    string
	From    string
	BaseURL string
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer; host and from are required.
func NewSMTPMailer(host, port, user, pass, from, baseURL string) (*SMTPMailer, error) {
	if host == "" || from == "" {
		return nil, errors.New("mailer requires SMTP host and from address", errors.CategoryValidation)
	}
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		Host:    host,
		Port:    port,
		User:    user,
		Pass:    pass,
		From:    from,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (m *SMTPMailer) SendVerification(to, code string) error {
	link := fmt.Sprintf("%s/api/v1/newsletter/verify/%s", m.BaseURL, code)
	body := fmt.Sprintf(
		"Thanks for subscribing to our newsletter.\r\n\r\n"+
			"Confirm your subscription by visiting:\r\n%s\r\n\r\n"+
			"If you did not sign up, ignore this message and the subscription will lapse.\r\n",
		link,
	)
	return m.send(to, "Confirm your newsletter subscription", body)
}

func (m *SMTPMailer) SendWelcome(to string) error {
	body := "Your subscription is confirmed. You will hear from us when there is news worth sending.\r\n"
	return m.send(to, "Subscription confirmed", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var a smtp.Auth
	if m.User != "" {
		a = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, a, m.From, []string{to}, []byte(msg)); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "smtp delivery failed").
			WithMetadata(map[string]any{"to": to})
	}
	return nil
}

// Noop discards mail. Development default when SMTP is not configured.
type Noop struct{}

var _ Mailer = Noop{}

func (Noop) SendVerification(string, string) error { return nil }
func (Noop) SendWelcome(string) error              { return nil }
