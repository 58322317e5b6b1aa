package editor_test

import (
	"testing"

	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/editor"
	"github.com/isometry/webhook-manager/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsValidForm(t *testing.T) {
	testCases := []struct {
		Name     string
		Draft    models.Draft
		Expected bool
	}{
		{
			Name:     "empty_url",
			Draft:    models.Draft{URL: "", Events: []string{"qr"}},
			Expected: false,
		},
		{
			Name:     "whitespace_url",
			Draft:    models.Draft{URL: " \t\n ", Events: []string{"qr"}},
			Expected: false,
		},
		{
			Name:     "no_events",
			Draft:    models.Draft{URL: "https://x.com", Events: []string{}},
			Expected: false,
		},
		{
			Name:     "nil_events",
			Draft:    models.Draft{URL: "https://x.com"},
			Expected: false,
		},
		{
			Name:     "valid",
			Draft:    models.Draft{URL: "https://x.com", Events: []string{"qr"}},
			Expected: true,
		},
		{
			Name:     "valid_without_url_syntax_check",
			Draft:    models.Draft{URL: "not a url", Events: []string{"made.up"}, Enabled: false, Secret: "s"},
			Expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, editor.IsValidForm(tc.Draft))
		})
	}
}

func TestToggleEventIsItsOwnInverse(t *testing.T) {
	drafts := []models.Draft{
		{Events: []string{}},
		{Events: []string{"qr"}},
		{Events: []string{"qr", "message", "group.join"}},
	}
	for _, d := range drafts {
		for _, e := range []string{"qr", "message", "blocklist"} {
			once := editor.ToggleEvent(d, e)
			assert.NotEqual(t, editor.IsEventSelected(d, e), editor.IsEventSelected(once, e))

			twice := editor.ToggleEvent(once, e)
			assert.ElementsMatch(t, d.Events, twice.Events)
		}
	}
}

func TestToggleEventDoesNotMutateInput(t *testing.T) {
	d := models.Draft{Events: []string{"qr", "message"}}
	_ = editor.ToggleEvent(d, "qr")
	assert.Equal(t, []string{"qr", "message"}, d.Events)
}

func TestSelectedEventsText(t *testing.T) {
	assert.Equal(t, "None", editor.SelectedEventsText(models.NewDraft()))
	assert.Equal(t, "qr, message.ack", editor.SelectedEventsText(models.Draft{Events: []string{"qr", "message.ack"}}))
}

func TestSelectAllUsesFullCatalog(t *testing.T) {
	events := []string{"qr", "custom.event"}
	d := editor.SelectAll(models.NewDraft(), events)
	assert.Equal(t, events, d.Events)

	events[0] = "changed"
	assert.Equal(t, "qr", d.Events[0])

	assert.Empty(t, editor.DeselectAll(d).Events)
	assert.NotNil(t, editor.DeselectAll(d).Events)
}

func TestEditCopiesEvents(t *testing.T) {
	w := models.Webhook{ID: "wh-1", URL: "https://x.com", Events: []string{"qr"}, Enabled: false, Description: "d"}

	s := editor.Edit(editor.NewState(), w)
	assert.True(t, s.ShowAddForm)
	assert.Equal(t, "wh-1", s.EditingID)
	assert.True(t, s.Editing())
	assert.False(t, s.Draft.Enabled)

	s.Draft.Events[0] = "mutated"
	s.Draft = editor.ToggleEvent(s.Draft, "message")
	assert.Equal(t, []string{"qr"}, w.Events)
}

func TestToggleAddFormResets(t *testing.T) {
	s := editor.NewState()
	s = editor.ToggleAddForm(s)
	assert.True(t, s.ShowAddForm)

	s.Draft.URL = "https://stale"
	s.Draft = editor.ToggleEvent(s.Draft, "qr")
	s = editor.ToggleCategory(s, catalog.Message)
	s.EditingID = "wh-1"

	s = editor.ToggleAddForm(s)
	assert.False(t, s.ShowAddForm)
	assert.Equal(t, models.NewDraft(), s.Draft)
	assert.Empty(t, s.EditingID)
	assert.Equal(t, catalog.DefaultExpansion(), s.Expanded)
}

func TestToggleCategory(t *testing.T) {
	s := editor.NewState()
	assert.True(t, s.Expanded[catalog.Connection])
	assert.False(t, s.Expanded[catalog.Group])

	s2 := editor.ToggleCategory(s, catalog.Group)
	assert.True(t, s2.Expanded[catalog.Group])
	assert.False(t, s.Expanded[catalog.Group], "input state is left untouched")

	s3 := editor.ToggleCategory(s2, catalog.Connection)
	assert.False(t, s3.Expanded[catalog.Connection])
}
