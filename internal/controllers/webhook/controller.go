// Package webhook provides a Controller for the webhook service REST API.
package webhook

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isometry/webhook-manager/internal/controllers/aws"
	"github.com/isometry/webhook-manager/internal/helpers"
	"github.com/isometry/webhook-manager/internal/models"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Supported authentication modes.
const (
	AuthModeNone  = "none"
	AuthModeBasic = "basic"
	AuthModeToken = "token"
	AuthModeSSM   = "ssm"
)

const (
	pathWebhooks = "/webhook"
	pathEvents   = "/webhook/events"
)

// Option is a functional option used to configure a Controller instance.
type Option func(*Controller)

// Controller performs the webhook service calls.
type Controller struct {
	Credentials

	ctx                context.Context
	logger             *slog.Logger
	baseURL            string
	authMode           string
	ssmKey             string
	timeout            time.Duration
	insecureSkipVerify bool
	transport          http.RoundTripper
	awsController      *aws.Controller

	client *http.Client
}

// Credentials holds the secrets used to authenticate against the webhook service.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{authMode: AuthModeNone}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.authMode = strings.TrimSpace(strings.ToLower(_inst.authMode))
	_inst.logger = _inst.logger.With("authMode", _inst.authMode)

	if _, err := url.ParseRequestURI(_inst.baseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid webhook service URL %q", _inst.baseURL)
	}
	_inst.baseURL = strings.TrimRight(_inst.baseURL, "/")

	if err := _inst.RetrieveCredentials(); err != nil {
		return nil, err
	}
	_inst.client = _inst.newHTTPClient()
	return _inst, nil
}

// RetrieveCredentials validates the configured credentials, fetching them from SSM when required.
func (c *Controller) RetrieveCredentials() error {
	switch c.authMode {
	case AuthModeNone, "":
		c.authMode = AuthModeNone
	case AuthModeBasic:
		if c.Username == "" {
			return errors.New("missing username for basic authentication")
		}
	case AuthModeToken:
		if c.Token == "" {
			return errors.New("missing token for token authentication")
		}
	case AuthModeSSM:
		if c.Token != "" {
			c.logger.Debug("using cached token...")
			return nil
		}
		if c.awsController == nil {
			return errors.New("ssm authentication requires an AWS controller")
		}
		c.logger.Debug("retrieving token from SSM...")
		secret, err := c.awsController.GetSecret(c.ctx, c.ssmKey, true)
		if err != nil {
			return errors.Wrap(err, "failed to fetch credentials from SSM")
		}
		c.Token = strings.TrimSpace(secret)
	default:
		return errors.Errorf("unsupported auth mode: %s", c.authMode)
	}
	return nil
}

func (c *Controller) newHTTPClient() *http.Client {
	base := c.transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if c.insecureSkipVerify {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in
		}
		base = t
	}
	if c.insecureSkipVerify {
		helpers.OnceAMinute.Do(func() {
			c.logger.Warn("TLS certificate verification is disabled")
		})
	}
	rt := &loggingRoundTripper{next: base, logger: c.logger}

	var client *http.Client
	switch c.authMode {
	case AuthModeToken, AuthModeSSM:
		ctx := context.WithValue(c.ctx, oauth2.HTTPClient, &http.Client{Transport: rt})
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token}))
	default:
		client = &http.Client{Transport: rt}
	}
	client.Timeout = c.timeout
	return client
}

// ListWebhooks returns every configured webhook.
func (c *Controller) ListWebhooks(ctx context.Context) ([]models.Webhook, error) {
	var resp models.ResponseData[[]models.Webhook]
	if err := c.do(ctx, http.MethodGet, pathWebhooks, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []models.Webhook{}, nil
	}
	return resp.Results, nil
}

// GetWebhook returns a single webhook.
func (c *Controller) GetWebhook(ctx context.Context, id string) (*models.Webhook, error) {
	var resp models.ResponseData[*models.Webhook]
	if err := c.do(ctx, http.MethodGet, webhookPath(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, newStatusError(http.MethodGet, webhookPath(id), http.StatusNotFound, "webhook not found")
	}
	return resp.Results, nil
}

// ListEvents returns the catalog of event names a webhook can subscribe to.
func (c *Controller) ListEvents(ctx context.Context) ([]string, error) {
	var resp models.ResponseData[[]string]
	if err := c.do(ctx, http.MethodGet, pathEvents, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []string{}, nil
	}
	return resp.Results, nil
}

// CreateWebhook creates a webhook from the draft.
func (c *Controller) CreateWebhook(ctx context.Context, draft models.Draft) error {
	return c.do(ctx, http.MethodPost, pathWebhooks, draft, nil)
}

// UpdateWebhook replaces the webhook identified by id with payload, either a models.Draft or a full models.Webhook.
func (c *Controller) UpdateWebhook(ctx context.Context, id string, payload any) error {
	return c.do(ctx, http.MethodPut, webhookPath(id), payload, nil)
}

// DeleteWebhook deletes the webhook identified by id.
func (c *Controller) DeleteWebhook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, webhookPath(id), nil, nil)
}

func webhookPath(id string) string {
	return pathWebhooks + "/" + url.PathEscape(id)
}

func (c *Controller) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authMode == AuthModeBasic {
		req.SetBasicAuth(c.Username, c.Password)
	}

	logger := c.logger.With(slog.String("method", method), slog.String("path", path))
	logger.Debug("calling webhook service...")
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("request failed", slog.Any("error", err))
		return newTransportError(method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody models.ErrorBody
		_ = json.Unmarshal(raw, &errBody)
		logger.Warn("webhook service rejected request", slog.Int("status", resp.StatusCode), slog.String("message", errBody.Message))
		return newStatusError(method, path, resp.StatusCode, errBody.Message)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "failed to decode webhook service response")
	}
	return nil
}
