package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/helpers"
	"github.com/isometry/webhook-manager/internal/models"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// exportDocument is the YAML layout of an export.
type exportDocument struct {
	ExportedAt time.Time        `yaml:"exportedAt"`
	Server     string           `yaml:"server"`
	Webhooks   []models.Webhook `yaml:"webhooks"`
}

var includeSecrets bool

func cmdExport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the configured webhooks as YAML to a file, stdout or S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := newWebhookController(cmd.Context())
			if err != nil {
				return err
			}
			webhooks, err := ctl.ListWebhooks(cmd.Context())
			if err != nil {
				return err
			}
			if !includeSecrets {
				for i := range webhooks {
					webhooks[i].Secret = helpers.MaskSecret(webhooks[i].Secret)
				}
			}

			body, err := yaml.Marshal(exportDocument{
				ExportedAt: time.Now().UTC(),
				Server:     config.Server.URL,
				Webhooks:   webhooks,
			})
			if err != nil {
				return errors.Wrap(err, "failed to marshal webhooks")
			}

			if bucket := config.Export.S3.BucketName; bucket != "" {
				awsController, err := newAWSController(cmd.Context())
				if err != nil {
					return err
				}
				key, err := awsController.PutS3Object(cmd.Context(), config.Export.S3.Key, bucket, "application/yaml", body)
				if err != nil {
					return err
				}
				logger.Info("Exported webhooks to S3", slog.String("bucket", bucket), slog.String("key", key))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", bucket, key)
				return nil
			}

			if out := config.Export.Output; out != "" && out != "-" {
				if err = os.WriteFile(filepath.Clean(out), body, 0o600); err != nil {
					return errors.Wrapf(err, "failed to write export to %s", out)
				}
				logger.Info("Exported webhooks", slog.String("path", out), slog.Int("count", len(webhooks)))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}

	includeSecrets = false
	bindEnvMap(cmd, exportEnvMapString)
	bindEnvMap(cmd, exportEnvMapBool)
	return cmd
}
