package cmd

import (
	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/editor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type draftFlags struct {
	url, secret, description string
	enabled, allEvents       bool
	events, categories       []string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&f.secret, "secret", "", "Secret used by the service to sign payloads")
	cmd.Flags().StringVar(&f.description, "description", "", "Free-form description")
	cmd.Flags().BoolVar(&f.enabled, "enabled", true, "Deliver events to the webhook")
	cmd.Flags().StringSliceVarP(&f.events, "event", "e", nil, "Event to subscribe to, replaces the current selection (repeatable)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "Subscribe to every event of a category (repeatable)")
	cmd.Flags().BoolVar(&f.allEvents, "all-events", false, "Subscribe to the whole event catalog")
}

func (f *draftFlags) needsCatalog() bool {
	return f.allEvents || len(f.categories) > 0
}

// apply copies the changed flags into the editor draft.
func (f *draftFlags) apply(cmd *cobra.Command, ed *editor.Editor) error {
	flags := cmd.Flags()
	if flags.Changed("url") {
		ed.SetURL(f.url)
	}
	if flags.Changed("secret") {
		ed.SetSecret(f.secret)
	}
	if flags.Changed("description") {
		ed.SetDescription(f.description)
	}
	if flags.Changed("enabled") {
		ed.SetEnabled(f.enabled)
	}
	if flags.Changed("event") {
		ed.DeselectAllEvents()
		selectEvents(ed, f.events)
	}
	for _, c := range f.categories {
		if _, ok := catalog.Lookup(c); !ok {
			return errors.Errorf("unknown event category %q, expected one of %v", c, catalog.Names())
		}
		selectEvents(ed, ed.EventsByCategory(c))
	}
	if f.allEvents {
		ed.SelectAllEvents()
	}
	return nil
}

func selectEvents(ed *editor.Editor, events []string) {
	for _, e := range events {
		if !editor.IsEventSelected(ed.State().Draft, e) {
			ed.ToggleEvent(e)
		}
	}
}

func cmdCreate() *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a webhook",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ed, _, term, err := newSession(cmd)
			if err != nil {
				return err
			}
			if f.needsCatalog() {
				if err = ed.FetchEvents(cmd.Context()); err != nil {
					return term.settle(err)
				}
			}
			ed.ToggleAddForm()
			if err = f.apply(cmd, ed); err != nil {
				return err
			}
			return term.settle(ed.Submit(cmd.Context()))
		},
	}
	f.register(cmd)
	return cmd
}

func cmdUpdate() *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a webhook, only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, ctl, term, err := newSession(cmd)
			if err != nil {
				return err
			}
			if f.needsCatalog() {
				if err = ed.FetchEvents(cmd.Context()); err != nil {
					return term.settle(err)
				}
			}
			w, err := ctl.GetWebhook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ed.EditWebhook(*w)
			if err = f.apply(cmd, ed); err != nil {
				return err
			}
			return term.settle(ed.Submit(cmd.Context()))
		},
	}
	f.register(cmd)
	return cmd
}

func cmdDelete() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a webhook after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, term, err := newSession(cmd)
			if err != nil {
				return err
			}
			return term.settle(ed.Delete(cmd.Context(), args[0]))
		},
	}
}

func cmdToggle() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable a disabled webhook or disable an enabled one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, term, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err = ed.FetchWebhooks(cmd.Context()); err != nil {
				return term.settle(err)
			}
			w, ok := ed.FindWebhook(args[0])
			if !ok {
				return errors.Errorf("webhook %s not found", args[0])
			}
			return term.settle(ed.ToggleEnabled(cmd.Context(), w))
		},
	}
}
