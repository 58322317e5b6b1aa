// Package cmd provides the entrypoint for the webhook-manager cli.
package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "WEBHOOK_MANAGER"

var (
	configFilePath string
	logger         *slog.Logger
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the webhook-manager.
func New() *cobra.Command {
	return newRootCommand(os.Args[1:])
}

// Execute runs the webhook-manager. Errors the terminal has already shown are not printed again.
func Execute() error {
	return execute(New())
}

func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	var shown *shownError
	if err != nil && !errors.As(err, &shown) {
		cmd.PrintErrln(cmd.ErrPrefix(), err.Error())
	}
	return err
}

func newRootCommand(args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webhook-manager",
		Short:         "Manage the webhook subscriptions of a webhook service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger = helpers.NewLogger(config.Global.Logging.Verbosity, config.Global.Logging.CallerTrace)
		},
	}

	// Configuration loading & defaults. The file values become the flag defaults.
	configFilePath = lookupConfigPath(args)
	config.Reset()
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", configFilePath, "path to the configuration file")

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdList(),
		cmdEvents(),
		cmdCreate(),
		cmdUpdate(),
		cmdDelete(),
		cmdToggle(),
		cmdExport(),
		cmdManage(),
		cmdReceive(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapDuration)
}
