package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithContext sets the context used while loading the AWS configuration.
func WithContext(ctx context.Context) Option {
	return func(a *Controller) {
		a.ctx = ctx
	}
}

// WithConfig provides an explicit AWS configuration instead of the default chain.
func WithConfig(cfg *aws.Config) Option {
	return func(a *Controller) {
		a.config = cfg
	}
}

// WithS3PathStyle addresses buckets in the request path rather than the host name.
func WithS3PathStyle(pathStyle bool) Option {
	return func(a *Controller) {
		a.s3PathStyle = pathStyle
	}
}

// WithS3Endpoint overrides the endpoint of the S3 client.
func WithS3Endpoint(endpoint string) Option {
	return func(a *Controller) {
		a.s3Endpoint = endpoint
	}
}
