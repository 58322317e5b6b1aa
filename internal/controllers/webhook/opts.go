package webhook

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/webhook-manager/internal/controllers/aws"
)

// WithBaseURL sets the root URL of the webhook service, e.g. http://localhost:3000.
func WithBaseURL(baseURL string) Option {
	return func(c *Controller) {
		c.baseURL = baseURL
	}
}

// WithLogger sets a custom logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithContext sets the context used while retrieving credentials.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.ctx = ctx
	}
}

// WithAuthMode sets the authentication mode: none, basic, token or ssm.
func WithAuthMode(mode string) Option {
	return func(c *Controller) {
		c.authMode = mode
	}
}

// WithBasicAuth sets the basic authentication credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *Controller) {
		c.Username = username
		c.Password = password
	}
}

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(c *Controller) {
		c.Token = token
	}
}

// WithSSMKey sets the SSM parameter holding the bearer token.
func WithSSMKey(key string) Option {
	return func(c *Controller) {
		c.ssmKey = key
	}
}

// WithAWSController sets the AWS controller used to resolve SSM credentials.
func WithAWSController(ctl *aws.Controller) Option {
	return func(c *Controller) {
		c.awsController = ctl
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Controller) {
		c.insecureSkipVerify = skip
	}
}

// WithTransport replaces the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Controller) {
		c.transport = rt
	}
}
