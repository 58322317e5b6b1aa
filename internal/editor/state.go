package editor

import (
	"maps"
	"slices"
	"strings"

	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/models"
)

// State is a snapshot of everything the editor view renders.
type State struct {
	// Loading is set while a create or update is in flight.
	Loading bool
	// Webhooks is the last list read from the webhook service.
	Webhooks []models.Webhook
	// Events is the event catalog read from the webhook service.
	Events []string
	// ShowAddForm switches the view between list mode and form mode.
	ShowAddForm bool
	// EditingID identifies the webhook being edited. Empty when creating a new one.
	EditingID string
	// Draft is the form being authored.
	Draft models.Draft
	// Expanded holds the expansion state of each event category.
	Expanded map[string]bool
}

// NewState returns the initial editor state.
func NewState() State {
	return State{
		Webhooks: []models.Webhook{},
		Events:   []string{},
		Draft:    models.NewDraft(),
		Expanded: catalog.DefaultExpansion(),
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	webhooks := make([]models.Webhook, 0, len(s.Webhooks))
	for _, w := range s.Webhooks {
		webhooks = append(webhooks, w.Clone())
	}
	s.Webhooks = webhooks
	s.Events = append([]string{}, s.Events...)
	s.Draft = s.Draft.Clone()
	s.Expanded = maps.Clone(s.Expanded)
	return s
}

// Editing reports whether the form edits an existing webhook.
func (s State) Editing() bool {
	return s.EditingID != ""
}

// IsValidForm reports whether the draft can be submitted: a non-blank URL and at least one event.
func IsValidForm(d models.Draft) bool {
	return validate(d) == nil
}

// ToggleEvent adds event to the draft when absent and removes it when present.
func ToggleEvent(d models.Draft, event string) models.Draft {
	d = d.Clone()
	if i := slices.Index(d.Events, event); i > -1 {
		d.Events = slices.Delete(d.Events, i, i+1)
	} else {
		d.Events = append(d.Events, event)
	}
	return d
}

// IsEventSelected reports whether the draft subscribes to event.
func IsEventSelected(d models.Draft, event string) bool {
	return slices.Contains(d.Events, event)
}

// SelectedEventsText summarises the draft selection.
func SelectedEventsText(d models.Draft) string {
	if len(d.Events) == 0 {
		return "None"
	}
	return strings.Join(d.Events, ", ")
}

// SelectAll selects the full catalog, including entries outside every category.
func SelectAll(d models.Draft, events []string) models.Draft {
	d = d.Clone()
	d.Events = append([]string{}, events...)
	return d
}

// DeselectAll clears the selection.
func DeselectAll(d models.Draft) models.Draft {
	d = d.Clone()
	d.Events = []string{}
	return d
}

// Reset discards the draft, the editing target and the category expansion.
func Reset(s State) State {
	s = s.Clone()
	s.Draft = models.NewDraft()
	s.EditingID = ""
	s.Expanded = catalog.DefaultExpansion()
	return s
}

// Edit loads w into the form and switches to form mode.
func Edit(s State, w models.Webhook) State {
	s = s.Clone()
	s.Draft = models.DraftFromWebhook(w)
	s.EditingID = w.ID
	s.ShowAddForm = true
	return s
}

// ToggleAddForm flips between list and form mode. Leaving form mode always resets the form.
func ToggleAddForm(s State) State {
	s = s.Clone()
	s.ShowAddForm = !s.ShowAddForm
	if !s.ShowAddForm {
		s = Reset(s)
	}
	return s
}

// ToggleCategory flips the expansion of a category.
func ToggleCategory(s State, category string) State {
	s = s.Clone()
	if s.Expanded == nil {
		s.Expanded = map[string]bool{}
	}
	s.Expanded[category] = !s.Expanded[category]
	return s
}
