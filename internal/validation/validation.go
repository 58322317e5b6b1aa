// Package validation verifies the HMAC-SHA256 signature the webhook service attaches to every delivery.
package validation

import (
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/pkg/errors"
)

// SignatureHeader carries the delivery signature, formatted as "sha256=<hex digest>".
const SignatureHeader = github.SHA256SignatureHeader

// WebhookSecret is the secret shared between the webhook service and a webhook endpoint.
type WebhookSecret string

// NewWebhookSecret returns a pointer to the secret, or nil when the secret is empty.
func NewWebhookSecret(secret string) *WebhookSecret {
	if secret == "" {
		return nil
	}
	s := WebhookSecret(secret)
	return &s
}

// ValidateSignature validates the signature of a delivery. Header names must be lower-cased.
func (s *WebhookSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if s == nil {
		return errors.New("missing webhook secret")
	}
	signature, found := headers[strings.ToLower(SignatureHeader)]
	if !found {
		return errors.New("missing HMAC-SHA256 signature")
	}

	if contentType := headers["content-type"]; !strings.HasPrefix(contentType, "application/json") {
		return errors.Errorf("unsupported content type: %s", contentType)
	}

	return errors.Wrap(github.ValidateSignature(signature, body, []byte(*s)), "invalid signature")
}
