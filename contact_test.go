package bitebybits

import (
	"errors"
	"strings"
	"testing"
)

type sentMail struct {
	subject, body, from string
	to                  []string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(subject, body, from string, to []string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{subject, body, from, to})
	return nil
}

type fakeVerifier struct {
	ok  bool
	err error
}

func (f *fakeVerifier) Verify(token, remoteIP string) (bool, error) {
	return f.ok, f.err
}

func contactTestApp(m Mailer, v Verifier) *App {
	cfg := SiteConfig{
		Name:      "Bite by Bits",
		ContactTo: "owner@example.com",
		SMTPFrom:  "noreply@example.com",
	}
	if v != nil {
		cfg.RecaptchaSecret = "test-secret"
	}
	return &App{Config: cfg, mailer: m, verifier: v}
}

func validForm() ContactForm {
	return ContactForm{
		Name:    "Jane Reader",
		Email:   "jane@example.com",
		Subject: "Hello",
		Message: "I enjoyed your last post.",
	}
}

func TestSubmitContactDelivers(t *testing.T) {
	mailer := &fakeMailer{}
	a := contactTestApp(mailer, &fakeVerifier{ok: true})

	if err := a.SubmitContact(validForm(), "token", "203.0.113.1"); err != nil {
		t.Fatalf("SubmitContact failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("got %d messages, want 1", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.subject != "[Bite by Bits] Hello" {
		t.Errorf("subject = %q", msg.subject)
	}
	if !strings.Contains(msg.body, "Jane Reader") || !strings.Contains(msg.body, "jane@example.com") {
		t.Errorf("body does not identify the sender: %q", msg.body)
	}
	if !strings.Contains(msg.body, "I enjoyed your last post.") {
		t.Errorf("body lost the message: %q", msg.body)
	}
	if msg.from != "noreply@example.com" {
		t.Errorf("from = %q", msg.from)
	}
	if len(msg.to) != 1 || msg.to[0] != "owner@example.com" {
		t.Errorf("to = %v, want the operator address", msg.to)
	}
}

func TestSubmitContactValidation(t *testing.T) {
	mailer := &fakeMailer{}
	a := contactTestApp(mailer, &fakeVerifier{ok: true})

	form := validForm()
	form.Message = "   "
	form.Email = "not-an-address"

	err := a.SubmitContact(form, "token", "203.0.113.1")
	var fieldErrs ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("got %v, want ValidationErrors", err)
	}
	if _, ok := fieldErrs["message"]; !ok {
		t.Errorf("missing error for empty message: %v", fieldErrs)
	}
	if _, ok := fieldErrs["email"]; !ok {
		t.Errorf("missing error for bad email: %v", fieldErrs)
	}
	if len(mailer.sent) != 0 {
		t.Error("invalid form must not be dispatched")
	}
}

func TestSubmitContactVerificationRejected(t *testing.T) {
	for name, v := range map[string]*fakeVerifier{
		"said no":     {ok: false},
		"unreachable": {err: errors.New("timeout")},
	} {
		mailer := &fakeMailer{}
		a := contactTestApp(mailer, v)

		err := a.SubmitContact(validForm(), "token", "203.0.113.1")
		if !errors.Is(err, ErrVerificationRejected) {
			t.Errorf("%s: got %v, want ErrVerificationRejected", name, err)
		}
		if len(mailer.sent) != 0 {
			t.Errorf("%s: rejected submission must not be dispatched", name)
		}
	}
}

func TestSubmitContactSkipsVerificationWhenDisabled(t *testing.T) {
	mailer := &fakeMailer{}
	a := contactTestApp(mailer, nil)

	if err := a.SubmitContact(validForm(), "", "203.0.113.1"); err != nil {
		t.Fatalf("SubmitContact failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("got %d messages, want 1", len(mailer.sent))
	}
}

func TestSubmitContactHeaderInjection(t *testing.T) {
	mailer := &fakeMailer{}
	a := contactTestApp(mailer, &fakeVerifier{ok: true})

	form := validForm()
	form.Subject = "Hi\r\nBcc: everyone@example.com"

	err := a.SubmitContact(form, "token", "203.0.113.1")
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("got %v, want ErrBadHeader", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("injection attempt must not be dispatched")
	}
}

func TestSubmitContactWrapsTransportError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("connection refused")}
	a := contactTestApp(mailer, &fakeVerifier{ok: true})

	err := a.SubmitContact(validForm(), "token", "203.0.113.1")
	if err == nil {
		t.Fatal("expected a delivery error")
	}
	if errors.Is(err, ErrBadHeader) || errors.Is(err, ErrVerificationRejected) {
		t.Errorf("transport failure misclassified: %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("transport error not wrapped: %v", err)
	}
}

func TestCheckHeaderInjection(t *testing.T) {
	if err := checkHeaderInjection("clean subject", "a@example.com"); err != nil {
		t.Errorf("clean values rejected: %v", err)
	}
	if err := checkHeaderInjection("bad\nsubject"); !errors.Is(err, ErrBadHeader) {
		t.Errorf("LF not rejected: %v", err)
	}
	if err := checkHeaderInjection("bad\rsubject"); !errors.Is(err, ErrBadHeader) {
		t.Errorf("CR not rejected: %v", err)
	}
}
