package bitebybits

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Verifier checks a human-verification token. A false result or an error
// both mean the submission is rejected; the caller does not distinguish a
// failed check from an unreachable verification service.
type Verifier interface {
	Verify(token, remoteIP string) (bool, error)
}

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaVerifier verifies tokens against Google's siteverify endpoint
// using a shared secret.
type RecaptchaVerifier struct {
	Secret string
	Client *http.Client
}

// NewRecaptchaVerifier creates a verifier with a bounded request timeout.
func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		Secret: secret,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Verify posts the token to the verification service and reports the result.
func (v *RecaptchaVerifier) Verify(token, remoteIP string) (bool, error) {
	form := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	resp, err := v.Client.PostForm(recaptchaVerifyURL, form)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("verify: decode response: %w", err)
	}
	return result.Success, nil
}
