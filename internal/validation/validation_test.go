package validation_test

import (
	"strings"
	"testing"

	"github.com/isometry/webhook-manager/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestWebhookSecret_ValidateSignature(t *testing.T) {
	header := strings.ToLower(validation.SignatureHeader)

	testCases := []struct {
		Name        string
		Headers     map[string]string
		Body        string
		ExpectError bool
	}{
		{
			Name:        "invalid_headers",
			Headers:     map[string]string{},
			ExpectError: true,
		},
		{
			Name: "invalid_content_type",
			Headers: map[string]string{
				header:         "sha256=bc7daef0d3e3b227f6f1dd1b6e8ee0711a94bfd6a61ca28ec3c4aa22a33d27d8",
				"content-type": "application/xml",
			},
			Body:        `{"key": "value"}`,
			ExpectError: true,
		},
		{
			Name: "invalid_signature_value",
			Headers: map[string]string{
				header:         "invalid",
				"content-type": "application/json",
			},
			ExpectError: true,
		},
		{
			Name: "invalid_signature_sha256",
			Headers: map[string]string{
				header:         "sha256=844d7743b13e1bdd66b003c29ebe5184dcf985434dde9f125952595cd533213e",
				"content-type": "application/json",
			},
			Body:        `{"key": "value"}`,
			ExpectError: true,
		},
		{
			Name: "valid_signature_sha256",
			Headers: map[string]string{
				header:         "sha256=bc7daef0d3e3b227f6f1dd1b6e8ee0711a94bfd6a61ca28ec3c4aa22a33d27d8",
				"content-type": "application/json; charset=utf-8",
			},
			Body: `{"key": "value"}`,
		},
	}

	_inst := validation.WebhookSecret("key")
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := _inst.ValidateSignature([]byte(tc.Body), tc.Headers)
			if tc.ExpectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNilSecret(t *testing.T) {
	assert.Nil(t, validation.NewWebhookSecret(""))
	assert.Error(t, validation.NewWebhookSecret("").ValidateSignature(nil, nil))
}
