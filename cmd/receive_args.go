package cmd

import (
	"time"

	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/helpers"
)

var receiveEnvMapString = map[*string]boundEnvVar[string]{
	&config.Receive.Addr: {
		Name:        "receive-host-addr",
		Description: "The address to serve the receiver on (default all interfaces)",
		Short:       helpers.Ptr("H"),
	},
	&config.Receive.Port: {
		Name:        "receive-host-port",
		Description: "The port to serve the receiver on",
		Short:       helpers.Ptr("p"),
	},
	&config.Receive.Path: {
		Name:        "receive-host-path",
		Description: "The path to serve the receiver on",
		Short:       helpers.Ptr("P"),
	},
	&config.Receive.Secret: {
		Name:        "receive-secret",
		Description: "Reject deliveries not signed with this secret",
	},
}

var receiveEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Receive.Timeout: {
		Name:        "receive-io-timeout",
		Description: "The timeout for I/O operations",
	},
}
