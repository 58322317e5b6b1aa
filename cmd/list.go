package cmd

import (
	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/view"
	"github.com/spf13/cobra"
)

func cmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the configured webhooks against the event catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ed, _, term, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err = ed.Open(cmd.Context()); err != nil {
				return term.settle(err)
			}
			return view.RenderList(cmd.OutOrStdout(), ed.State())
		},
	}
}

func cmdEvents() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the event catalog grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if offline {
				return view.RenderCatalog(cmd.OutOrStdout(), catalog.DefaultEvents)
			}
			ed, _, term, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err = ed.FetchEvents(cmd.Context()); err != nil {
				return term.settle(err)
			}
			return view.RenderCatalog(cmd.OutOrStdout(), ed.State().Events)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Show the built-in catalog without contacting the webhook service")
	return cmd
}
