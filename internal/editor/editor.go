// Package editor implements the webhook subscription editor: a state container over the
// webhook service that manages the webhook list, the event catalog and a single draft form.
//
// State changes are published to subscribers as immutable snapshots; views render from those
// snapshots and call back into the editor operations.
package editor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/helpers"
	"github.com/isometry/webhook-manager/internal/models"
	"github.com/sourcegraph/conc/pool"
)

// Messages surfaced through the Notifier.
const (
	MsgCreated          = "Webhook created successfully"
	MsgUpdated          = "Webhook updated successfully"
	MsgDeleted          = "Webhook deleted successfully"
	MsgEnabled          = "Webhook enabled successfully"
	MsgDisabled         = "Webhook disabled successfully"
	MsgLoadWebhooksFail = "Failed to load webhooks"
	MsgLoadEventsFail   = "Failed to load available events"
	MsgDeleteFail       = "Failed to delete webhook"
	MsgToggleFail       = "Failed to update webhook status"

	DeletePrompt = "Are you sure you want to delete this webhook?"
)

// API is the webhook service as seen by the editor.
type API interface {
	ListWebhooks(ctx context.Context) ([]models.Webhook, error)
	ListEvents(ctx context.Context) ([]string, error)
	CreateWebhook(ctx context.Context, draft models.Draft) error
	UpdateWebhook(ctx context.Context, id string, payload any) error
	DeleteWebhook(ctx context.Context, id string) error
}

// Notifier surfaces non-blocking messages to the user.
type Notifier interface {
	ShowSuccessInfo(text string)
	ShowErrorInfo(text string)
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Editor is the webhook subscription editor.
type Editor struct {
	api         API
	notifier    Notifier
	confirmer   Confirmer
	logger      *slog.Logger
	afterRender func(State)

	// pubMu orders publication: it is held from a mutation until its snapshot is delivered.
	pubMu sync.Mutex
	mu    sync.Mutex
	state State

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int
}

// New returns an editor bound to api.
func New(api API, opts ...Option) *Editor {
	_inst := &Editor{
		api:         api,
		state:       NewState(),
		subscribers: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.notifier == nil {
		_inst.notifier = &logNotifier{logger: _inst.logger}
	}
	if _inst.confirmer == nil {
		_inst.confirmer = declineConfirmer{}
	}
	return _inst
}

// State returns a snapshot of the current state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every state change. Snapshots are delivered
// in mutation order, so the last one received is the current state. fn must not call back into
// the editor operations that change the state. The returned function removes the subscription.
func (e *Editor) Subscribe(fn func(State)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Editor) publish(s State) {
	e.subMu.Lock()
	subs := make([]func(State), 0, len(e.subscribers))
	for i := 0; i < e.nextSubID; i++ {
		if fn, ok := e.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	e.subMu.Unlock()
	for _, fn := range subs {
		fn(s.Clone())
	}
}

// update applies fn to the state and publishes the result.
func (e *Editor) update(fn func(State) State) State {
	s, _ := e.transition(func(s State) (State, error) { return fn(s), nil })
	return s
}

// transition applies fn to the state and publishes the result before any later mutation can
// publish its own. When fn fails the state is left untouched and nothing is published.
func (e *Editor) transition(fn func(State) (State, error)) (State, error) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	e.mu.Lock()
	next, err := fn(e.state)
	if err != nil {
		e.mu.Unlock()
		return State{}, err
	}
	e.state = next
	snapshot := e.state.Clone()
	e.mu.Unlock()

	e.publish(snapshot)
	return snapshot, nil
}

func (e *Editor) rendered(s State) {
	if e.afterRender != nil {
		e.afterRender(s)
	}
}

// Open switches to list mode and loads the webhooks and the event catalog concurrently.
// Each failure has already been notified; the returned error joins them.
func (e *Editor) Open(ctx context.Context) error {
	e.update(func(s State) State {
		s.ShowAddForm = false
		return s
	})

	p := pool.New().WithErrors()
	p.Go(func() error { return e.FetchWebhooks(ctx) })
	p.Go(func() error { return e.FetchEvents(ctx) })
	return p.Wait()
}

// FetchWebhooks refreshes the webhook list. On failure the previous list is kept.
func (e *Editor) FetchWebhooks(ctx context.Context) error {
	webhooks, err := e.api.ListWebhooks(ctx)
	if err != nil {
		e.logger.Error("failed to fetch webhooks", slog.Any("error", err))
		e.notifier.ShowErrorInfo(MsgLoadWebhooksFail)
		return err
	}
	if webhooks == nil {
		webhooks = []models.Webhook{}
	}
	e.update(func(s State) State {
		s.Webhooks = webhooks
		return s
	})
	return nil
}

// FetchEvents refreshes the event catalog. On failure the previous catalog is kept.
func (e *Editor) FetchEvents(ctx context.Context) error {
	events, err := e.api.ListEvents(ctx)
	if err != nil {
		e.logger.Error("failed to fetch available events", slog.Any("error", err))
		e.notifier.ShowErrorInfo(MsgLoadEventsFail)
		return err
	}
	if events == nil {
		events = []string{}
	}
	e.update(func(s State) State {
		s.Events = events
		return s
	})
	return nil
}

// Submit creates or updates the webhook described by the draft.
//
// It declines without any call when the draft is invalid (*ValidationError) or when a submission
// is already in flight (ErrBusy). On success the form is reset and closed and the list refreshed;
// on failure the form stays open with the draft intact.
func (e *Editor) Submit(ctx context.Context) error {
	snapshot, err := e.transition(func(s State) (State, error) {
		if s.Loading {
			return s, ErrBusy
		}
		if err := validate(s.Draft); err != nil {
			return s, err
		}
		s.Loading = true
		return s, nil
	})
	if err != nil {
		return err
	}
	draft := snapshot.Draft.Clone()
	id := snapshot.EditingID

	logger := e.logger.With(slog.String("editingId", id))
	msg := MsgCreated
	if id != "" {
		logger.Debug("updating webhook...")
		msg = MsgUpdated
		err = e.api.UpdateWebhook(ctx, id, draft)
	} else {
		logger.Debug("creating webhook...")
		err = e.api.CreateWebhook(ctx, draft)
	}
	e.update(func(s State) State {
		s.Loading = false
		return s
	})

	if err != nil {
		logger.Warn("failed to submit webhook", slog.Any("error", err))
		e.notifier.ShowErrorInfo(messageOf(err))
		return err
	}

	e.notifier.ShowSuccessInfo(msg)
	e.update(func(s State) State {
		s = Reset(s)
		s.ShowAddForm = false
		return s
	})
	_ = e.FetchWebhooks(ctx)
	return nil
}

// Delete removes a webhook after interactive confirmation. A declined confirmation is not an error.
func (e *Editor) Delete(ctx context.Context, id string) error {
	ok, err := e.confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		return err
	}
	if !ok {
		e.logger.Debug("delete declined", slog.String("id", id))
		return nil
	}

	if err = e.api.DeleteWebhook(ctx, id); err != nil {
		e.logger.Warn("failed to delete webhook", slog.String("id", id), slog.Any("error", err))
		e.notifier.ShowErrorInfo(MsgDeleteFail)
		return err
	}
	e.notifier.ShowSuccessInfo(MsgDeleted)
	_ = e.FetchWebhooks(ctx)
	return nil
}

// ToggleEnabled sends the full webhook with its enabled flag inverted. The local list is never
// changed directly: it is refreshed from the service whatever the outcome.
func (e *Editor) ToggleEnabled(ctx context.Context, w models.Webhook) error {
	updated := w.Clone()
	updated.Enabled = !w.Enabled

	err := e.api.UpdateWebhook(ctx, w.ID, updated)
	if err != nil {
		e.logger.Warn("failed to toggle webhook", slog.String("id", w.ID), slog.Any("error", err))
		e.notifier.ShowErrorInfo(MsgToggleFail)
	} else if updated.Enabled {
		e.notifier.ShowSuccessInfo(MsgEnabled)
	} else {
		e.notifier.ShowSuccessInfo(MsgDisabled)
	}
	_ = e.FetchWebhooks(ctx)
	return err
}

// EditWebhook loads w into the form and opens it.
func (e *Editor) EditWebhook(w models.Webhook) {
	e.rendered(e.update(func(s State) State { return Edit(s, w) }))
}

// ToggleAddForm opens or closes the form. Closing it resets the draft.
func (e *Editor) ToggleAddForm() {
	s := e.update(ToggleAddForm)
	if s.ShowAddForm {
		e.rendered(s)
	}
}

// Reset discards the draft.
func (e *Editor) Reset() {
	e.update(Reset)
}

// ToggleCategory expands or collapses a category of the event picker.
func (e *Editor) ToggleCategory(category string) {
	s := e.update(func(s State) State { return ToggleCategory(s, category) })
	if s.Expanded[category] {
		e.rendered(s)
	}
}

// ToggleEvent adds or removes an event from the draft.
func (e *Editor) ToggleEvent(event string) {
	e.updateDraft(func(d models.Draft) models.Draft { return ToggleEvent(d, event) })
}

// SelectAllEvents selects the whole catalog.
func (e *Editor) SelectAllEvents() {
	e.update(func(s State) State {
		s.Draft = SelectAll(s.Draft, s.Events)
		return s
	})
}

// DeselectAllEvents clears the selection.
func (e *Editor) DeselectAllEvents() {
	e.updateDraft(DeselectAll)
}

// SetURL sets the draft URL.
func (e *Editor) SetURL(v string) {
	e.updateDraft(func(d models.Draft) models.Draft { d.URL = v; return d })
}

// SetSecret sets the draft secret.
func (e *Editor) SetSecret(v string) {
	e.updateDraft(func(d models.Draft) models.Draft { d.Secret = v; return d })
}

// SetDescription sets the draft description.
func (e *Editor) SetDescription(v string) {
	e.updateDraft(func(d models.Draft) models.Draft { d.Description = v; return d })
}

// SetEnabled sets the draft enabled flag.
func (e *Editor) SetEnabled(v bool) {
	e.updateDraft(func(d models.Draft) models.Draft { d.Enabled = v; return d })
}

func (e *Editor) updateDraft(fn func(models.Draft) models.Draft) {
	e.update(func(s State) State {
		s.Draft = fn(s.Draft.Clone())
		return s
	})
}

// IsValidForm reports whether the current draft can be submitted.
func (e *Editor) IsValidForm() bool {
	return IsValidForm(e.State().Draft)
}

// EventsByCategory returns the catalog entries of a category.
func (e *Editor) EventsByCategory(category string) []string {
	return catalog.EventsByCategory(e.State().Events, category)
}

// FindWebhook looks a webhook up in the last fetched list.
func (e *Editor) FindWebhook(id string) (models.Webhook, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, w := range e.state.Webhooks {
		if w.ID == id {
			return w.Clone(), true
		}
	}
	return models.Webhook{}, false
}

type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) ShowSuccessInfo(text string) {
	n.logger.Info(text)
}

func (n *logNotifier) ShowErrorInfo(text string) {
	n.logger.Error(text)
}

type declineConfirmer struct{}

func (declineConfirmer) Confirm(context.Context, string) (bool, error) {
	return false, nil
}
