package receiver_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isometry/webhook-manager/internal/receiver"
	"github.com/isometry/webhook-manager/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPayload = `{"event":"message.ack","payload":{"ids":["3EB0"],"receipt_type":"read"}}`

// sign computes the signature header value the webhook service sends with body.
func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestServeHTTP(t *testing.T) {
	const secret = "s3cr3t"

	testCases := []struct {
		Name           string
		Method         string
		Secret         string
		Body           string
		Headers        map[string]string
		ExpectStatus   int
		ExpectDelivery bool
		ExpectEvent    string
		ExpectVerified bool
	}{
		{
			Name:         "method_not_allowed",
			Method:       http.MethodGet,
			ExpectStatus: http.StatusMethodNotAllowed,
		},
		{
			Name:           "unsigned_without_secret",
			Method:         http.MethodPost,
			Body:           testPayload,
			ExpectStatus:   http.StatusOK,
			ExpectDelivery: true,
			ExpectEvent:    "message.ack",
		},
		{
			Name:         "unsigned_with_secret",
			Method:       http.MethodPost,
			Secret:       secret,
			Body:         testPayload,
			Headers:      map[string]string{"Content-Type": "application/json"},
			ExpectStatus: http.StatusForbidden,
		},
		{
			Name:   "wrong_signature",
			Method: http.MethodPost,
			Secret: secret,
			Body:   testPayload,
			Headers: map[string]string{
				"Content-Type":             "application/json",
				validation.SignatureHeader: sign("other", testPayload),
			},
			ExpectStatus: http.StatusForbidden,
		},
		{
			Name:   "signed",
			Method: http.MethodPost,
			Secret: secret,
			Body:   testPayload,
			Headers: map[string]string{
				"Content-Type":             "application/json",
				validation.SignatureHeader: sign(secret, testPayload),
			},
			ExpectStatus:   http.StatusOK,
			ExpectDelivery: true,
			ExpectEvent:    "message.ack",
			ExpectVerified: true,
		},
		{
			Name:         "not_json",
			Method:       http.MethodPost,
			Body:         "hello",
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Name:           "no_event",
			Method:         http.MethodPost,
			Body:           `{"message":{"text":"hi"}}`,
			ExpectStatus:   http.StatusOK,
			ExpectDelivery: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var deliveries []receiver.Delivery
			r := receiver.NewReceiver(
				receiver.WithSecret(tc.Secret),
				receiver.WithDeliveryHandler(func(d receiver.Delivery) { deliveries = append(deliveries, d) }))

			req := httptest.NewRequest(tc.Method, "/", strings.NewReader(tc.Body))
			for k, v := range tc.Headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.ExpectStatus, rr.Code)
			if !tc.ExpectDelivery {
				assert.Empty(t, deliveries)
				return
			}
			require.Len(t, deliveries, 1)
			assert.Equal(t, tc.ExpectEvent, deliveries[0].Event)
			assert.Equal(t, tc.ExpectVerified, deliveries[0].Verified)
			assert.Equal(t, tc.Body, string(deliveries[0].Body))
			assert.False(t, deliveries[0].ReceivedAt.IsZero())
		})
	}
}
