// Package receiver provides an HTTP handler accepting webhook deliveries, used to try out a webhook
// endpoint locally before registering it with the webhook service.
package receiver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/isometry/webhook-manager/internal/helpers"
	"github.com/isometry/webhook-manager/internal/validation"
)

// Delivery is a webhook call as received.
type Delivery struct {
	// Event is the event name carried by the payload, empty when the payload has none.
	Event      string
	ReceivedAt time.Time
	// Verified reports whether the signature was checked against the configured secret.
	Verified bool
	Payload  map[string]any
	Body     []byte
}

// Option configures a Receiver.
type Option func(*Receiver)

// WithLogger sets the logger of the receiver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Receiver) {
		r.logger = logger
	}
}

// WithSecret enables signature verification. Unsigned or mis-signed deliveries are then rejected.
func WithSecret(secret string) Option {
	return func(r *Receiver) {
		r.secret = validation.NewWebhookSecret(secret)
	}
}

// WithDeliveryHandler sets the callback invoked for every accepted delivery.
func WithDeliveryHandler(fn func(Delivery)) Option {
	return func(r *Receiver) {
		r.onDelivery = fn
	}
}

// Receiver is the delivery endpoint.
type Receiver struct {
	logger     *slog.Logger
	secret     *validation.WebhookSecret
	onDelivery func(Delivery)
}

// NewReceiver creates a Receiver.
func NewReceiver(opts ...Option) *Receiver {
	_inst := &Receiver{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

func respond(resp http.ResponseWriter, status int, message string) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)
	_ = json.NewEncoder(resp).Encode(map[string]any{"status": status, "message": message})
}

// ServeHTTP accepts a delivery.
func (r *Receiver) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		respond(resp, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	headers := make(map[string]string)
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = v[0]
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		respond(resp, http.StatusInternalServerError, "failed to read request body")
		return
	}

	if r.secret != nil {
		if err = r.secret.ValidateSignature(body, headers); err != nil {
			r.logger.Warn("rejecting delivery", slog.Any("error", err))
			respond(resp, http.StatusForbidden, err.Error())
			return
		}
	}

	delivery := Delivery{
		ReceivedAt: time.Now(),
		Verified:   r.secret != nil,
		Body:       body,
	}
	if err = json.Unmarshal(body, &delivery.Payload); err != nil || delivery.Payload == nil {
		r.logger.Warn("delivery is not a JSON object", slog.Any("error", err))
		respond(resp, http.StatusBadRequest, "payload must be a JSON object")
		return
	}
	if event, ok := delivery.Payload["event"].(string); ok {
		delivery.Event = event
	}

	r.logger.Info("delivery received", slog.String("event", delivery.Event), slog.Bool("verified", delivery.Verified))
	if r.onDelivery != nil {
		r.onDelivery(delivery)
	}
	respond(resp, http.StatusOK, "received")
}
