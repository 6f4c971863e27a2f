package bitebybits

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrVerificationRejected is returned when the human-verification step fails,
// either because the service said no or because it could not be reached. It
// renders as its own user-facing message, distinct from field validation.
var ErrVerificationRejected = errors.New("contact: verification rejected")

// ContactForm is the raw contact submission before validation.
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ValidationErrors maps field names to user-facing messages.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return "contact: invalid fields: " + strings.Join(fields, ", ")
}

// Validate trims all fields and checks them. Every field is required; the
// email must parse as an address. A nil return means the form is clean.
func (f *ContactForm) Validate() ValidationErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	errs := ValidationErrors{}
	if f.Name == "" {
		errs["name"] = "Please enter your name."
	}
	if f.Email == "" {
		errs["email"] = "Please enter your email address."
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Please enter a valid email address."
	}
	if f.Subject == "" {
		errs["subject"] = "Please enter a subject."
	}
	if f.Message == "" {
		errs["message"] = "Please enter a message."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// composeContactBody builds the message delivered to the operator, embedding
// the sender's name and email so replies are possible from the inbox alone.
func composeContactBody(f ContactForm) string {
	return fmt.Sprintf("From: %s <%s>\n\n%s\n", f.Name, f.Email, f.Message)
}

// SubmitContact runs the full intake: validate the form, verify the token
// when verification is configured, then dispatch to the operator address.
//
// Error returns, in order of checking: ValidationErrors for bad fields,
// ErrVerificationRejected for a failed or unreachable human check,
// ErrBadHeader for injection attempts, and a wrapped transport error for any
// other delivery failure.
func (a *App) SubmitContact(form ContactForm, token, remoteIP string) error {
	if errs := form.Validate(); errs != nil {
		return errs
	}

	if a.Config.RecaptchaSecret != "" && a.verifier != nil {
		ok, err := a.verifier.Verify(token, remoteIP)
		if err != nil || !ok {
			return ErrVerificationRejected
		}
	}

	subject := "[" + a.Config.Name + "] " + form.Subject
	if err := checkHeaderInjection(subject, a.Config.SMTPFrom, a.Config.ContactTo); err != nil {
		return err
	}

	body := composeContactBody(form)
	if err := a.mailer.Send(subject, body, a.Config.SMTPFrom, []string{a.Config.ContactTo}); err != nil {
		if errors.Is(err, ErrBadHeader) {
			return err
		}
		return fmt.Errorf("contact: dispatch: %w", err)
	}
	return nil
}
