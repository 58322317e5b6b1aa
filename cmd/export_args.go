package cmd

import (
	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/helpers"
)

var exportEnvMapString = map[*string]boundEnvVar[string]{
	&config.Export.Output: {
		Name:        "output",
		Description: "File to write the export to, '-' for stdout",
		Short:       helpers.Ptr("o"),
	},
	&config.Export.S3.BucketName: {
		Name:        "s3-bucket",
		Description: "Upload the export to this S3 bucket instead of writing it locally",
	},
	&config.Export.S3.Key: {
		Name:        "s3-key",
		Description: "Object name of the export, prefixed with the upload timestamp",
	},
	&config.Export.S3.Endpoint: {
		Name:        "s3-endpoint",
		Description: "Endpoint of an S3-compatible store",
	},
}

var exportEnvMapBool = map[*bool]boundEnvVar[bool]{
	&includeSecrets: {
		Name:        "include-secrets",
		Description: "Export webhook secrets in clear text",
	},
	&config.Export.S3.PathStyle: {
		Name:        "s3-path-style",
		Description: "Address the bucket in the request path instead of the host name",
	},
}
