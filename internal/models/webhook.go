package models

import (
	"slices"
	"time"
)

// Webhook is a subscription record owned by the webhook service.
type Webhook struct {
	ID          string    `json:"id" yaml:"id"`
	URL         string    `json:"url" yaml:"url"`
	Secret      string    `json:"secret,omitempty" yaml:"secret,omitempty"`
	Events      []string  `json:"events" yaml:"events"`
	Enabled     bool      `json:"enabled" yaml:"enabled"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero" yaml:"updatedAt,omitempty"`
}

// HasEvent reports whether the webhook is subscribed to the given event.
func (w Webhook) HasEvent(event string) bool {
	return slices.Contains(w.Events, event)
}

// Clone returns a copy of the webhook that shares no memory with the receiver.
func (w Webhook) Clone() Webhook {
	w.Events = slices.Clone(w.Events)
	return w
}

// Draft is the in-progress webhook being authored or edited.
type Draft struct {
	URL         string   `json:"url"`
	Secret      string   `json:"secret"`
	Events      []string `json:"events"`
	Enabled     bool     `json:"enabled"`
	Description string   `json:"description"`
}

// NewDraft returns an empty draft with the form defaults.
func NewDraft() Draft {
	return Draft{
		Events:  []string{},
		Enabled: true,
	}
}

// DraftFromWebhook copies the editable fields of w into a new draft.
// The events slice is copied so that the draft never aliases the webhook.
func DraftFromWebhook(w Webhook) Draft {
	events := make([]string, len(w.Events))
	copy(events, w.Events)
	return Draft{
		URL:         w.URL,
		Secret:      w.Secret,
		Events:      events,
		Enabled:     w.Enabled,
		Description: w.Description,
	}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	d.Events = append([]string{}, d.Events...)
	return d
}
