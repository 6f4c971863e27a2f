package bitebybits

import (
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// ErrBadHeader is returned when a header-bound field carries a raw CR or LF,
// which would let a sender smuggle extra headers into the message. This is
// fatal: the message is never dispatched and the attempt is not retried.
var ErrBadHeader = errors.New("mail: newline in header field")

// Mailer dispatches a plain-text message. Implementations return ErrBadHeader
// for header injection and wrap transport failures otherwise.
type Mailer interface {
	Send(subject, body, from string, to []string) error
}

// checkHeaderInjection rejects any header-bound value containing CR or LF.
func checkHeaderInjection(values ...string) error {
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return ErrBadHeader
		}
	}
	return nil
}

// SMTPMailer sends mail through an SMTP relay using go-mail.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Send composes and delivers a plain-text message. Header-bound fields are
// checked for injection before anything touches the wire.
func (m *SMTPMailer) Send(subject, body, from string, to []string) error {
	fields := append([]string{subject, from}, to...)
	if err := checkHeaderInjection(fields...); err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("mail: from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("mail: to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{
		gomail.WithPort(m.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.Username),
			gomail.WithPassword(m.Password),
		)
	}
	client, err := gomail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
