package cmd

import (
	"time"

	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Server.URL: {
		Name:        "server-url",
		Description: "Base URL of the webhook service",
		Short:       helpers.Ptr("s"),
	},
	&config.Server.AuthMode: {
		Name:        "auth-mode",
		Description: "Authentication against the webhook service. Supported values are 'none', 'basic', 'token' and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.Server.Username: {
		Name:        "username",
		Description: "Username for basic authentication",
		Short:       helpers.Ptr("u"),
	},
	&config.Server.Password: {
		Name:        "password",
		Description: "Password for basic authentication",
	},
	&config.Server.Token: {
		Name:        "token",
		Description: "Bearer token for token authentication",
	},
	&config.Server.SSMKey: {
		Name:        "ssm-key",
		Description: "The SSM parameter key holding the bearer token when using ssm authentication",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Server.InsecureSkipVerify: {
		Name:        "insecure-skip-verify",
		Description: "Skip TLS certificate verification of the webhook service",
	},
	&config.Global.AssumeYes: {
		Name:        "yes",
		Description: "Answer yes to every confirmation prompt",
		Short:       helpers.Ptr("y"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Server.Timeout: {
		Name:        "timeout",
		Description: "Timeout of each request to the webhook service, 0 disables it",
		Short:       helpers.Ptr("t"),
	},
}
