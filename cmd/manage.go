package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/editor"
	"github.com/isometry/webhook-manager/internal/view"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const manageHelp = `Commands:
  list                     show the webhooks
  refresh                  reload the webhooks and the event catalog
  add                      open the form for a new webhook
  edit <id>                open the form for an existing webhook
  cancel                   close the form and discard the draft
  url <value>              set the webhook URL
  secret <value>           set the signing secret
  description <value>      set the description
  enabled <true|false>     enable or disable delivery
  event <name>             select or unselect an event
  category <name>          expand or collapse a category
  all | none               select every event or none
  submit                   create or update the webhook
  delete <id>              delete a webhook
  toggle <id>              enable or disable a webhook
  help                     show this help
  quit                     leave the session
`

var errQuit = errors.New("quit")

// manageSession is the interactive counterpart of the editor: it renders every state change
// and maps input lines to editor operations.
type manageSession struct {
	ed   *editor.Editor
	term *terminal
	out  io.Writer

	mu      sync.Mutex
	pending *editor.State
	focused bool
}

func cmdManage() *cobra.Command {
	return &cobra.Command{
		Use:   "manage",
		Short: "Interactive webhook editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := &manageSession{out: cmd.OutOrStdout()}
			ed, _, term, err := newSession(cmd, editor.WithAfterRender(m.onRendered))
			if err != nil {
				return err
			}
			m.ed, m.term = ed, term
			return m.run(cmd.Context())
		},
	}
}

func (m *manageSession) onStateChange(s editor.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = &s
}

func (m *manageSession) onRendered(editor.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = true
}

// flush renders the latest state, if it changed since the last render.
func (m *manageSession) flush() {
	m.mu.Lock()
	s, focused := m.pending, m.focused
	m.pending, m.focused = nil, false
	m.mu.Unlock()

	if s == nil {
		return
	}
	if err := view.Render(m.out, *s); err != nil {
		logger.Error("failed to render", slog.Any("error", err))
	}
	if focused {
		_, _ = fmt.Fprintln(m.out, "Set the fields with url, secret, description, enabled and event, then submit.")
	}
}

func (m *manageSession) run(ctx context.Context) error {
	unsubscribe := m.ed.Subscribe(m.onStateChange)
	defer unsubscribe()

	_ = m.ed.Open(ctx)
	m.flush()
	for {
		_, _ = fmt.Fprint(m.out, config.Manage.Prompt)
		line, err := m.term.readLine()
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(m.out)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read command")
		}
		if line == "" {
			continue
		}

		err = m.exec(ctx, line)
		m.flush()
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			logger.Debug("command failed", slog.String("command", line), slog.Any("error", err))
			_, _ = fmt.Fprintln(m.term.errOut, "Error: "+err.Error())
		}
	}
}

// exec runs a single command line. Editor failures have already been notified and are not returned.
func (m *manageSession) exec(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	state := m.ed.State()

	requireArg := func() error {
		if arg == "" {
			return errors.Errorf("usage: %s <value>", name)
		}
		return nil
	}
	requireForm := func() error {
		if !state.ShowAddForm {
			return errors.New("no form open, use add or edit <id> first")
		}
		return nil
	}

	switch strings.ToLower(name) {
	case "help", "?":
		_, _ = fmt.Fprint(m.out, manageHelp)
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		return view.RenderList(m.out, state)
	case "refresh":
		_ = m.ed.Open(ctx)
	case "add":
		if state.ShowAddForm {
			return errors.New("a form is already open, submit or cancel it first")
		}
		m.ed.ToggleAddForm()
	case "edit":
		if err := requireArg(); err != nil {
			return err
		}
		w, ok := m.ed.FindWebhook(arg)
		if !ok {
			return errors.Errorf("webhook %s not found", arg)
		}
		m.ed.EditWebhook(w)
	case "cancel":
		if err := requireForm(); err != nil {
			return err
		}
		m.ed.ToggleAddForm()
	case "url":
		if err := requireForm(); err != nil {
			return err
		}
		m.ed.SetURL(arg)
	case "secret":
		if err := requireForm(); err != nil {
			return err
		}
		m.ed.SetSecret(arg)
	case "description":
		if err := requireForm(); err != nil {
			return err
		}
		m.ed.SetDescription(arg)
	case "enabled":
		if err := requireForm(); err != nil {
			return err
		}
		v, err := strconv.ParseBool(arg)
		if err != nil {
			return errors.New("usage: enabled <true|false>")
		}
		m.ed.SetEnabled(v)
	case "event":
		if err := requireForm(); err != nil {
			return err
		}
		if err := requireArg(); err != nil {
			return err
		}
		m.ed.ToggleEvent(arg)
	case "category":
		if err := requireForm(); err != nil {
			return err
		}
		if err := requireArg(); err != nil {
			return err
		}
		if _, ok := catalog.Lookup(arg); !ok {
			return errors.Errorf("unknown event category %q, expected one of %v", arg, catalog.Names())
		}
		m.ed.ToggleCategory(arg)
	case "all":
		if err := requireForm(); err != nil {
			return err
		}
		m.ed.SelectAllEvents()
	case "none":
		if err := requireForm(); err != nil {
			return err
		}
		m.ed.DeselectAllEvents()
	case "submit":
		if err := requireForm(); err != nil {
			return err
		}
		err := m.ed.Submit(ctx)
		var vErr *editor.ValidationError
		switch {
		case errors.As(err, &vErr):
			return errors.Errorf("cannot submit: %s", vErr.Reason)
		case errors.Is(err, editor.ErrBusy):
			return err
		}
	case "delete", "rm":
		if err := requireArg(); err != nil {
			return err
		}
		_ = m.ed.Delete(ctx, arg)
	case "toggle":
		if err := requireArg(); err != nil {
			return err
		}
		w, ok := m.ed.FindWebhook(arg)
		if !ok {
			return errors.Errorf("webhook %s not found", arg)
		}
		_ = m.ed.ToggleEnabled(ctx, w)
	default:
		return errors.Errorf("unknown command %q, type help for the list of commands", name)
	}
	return nil
}
