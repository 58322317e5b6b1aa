// Package view renders editor state snapshots as plain text.
package view

import (
	_ "embed"
	"io"
	"text/template"

	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/editor"
	"github.com/isometry/webhook-manager/internal/models"
	"github.com/isometry/webhook-manager/internal/receiver"
	"github.com/pkg/errors"
)

var (
	//go:embed templates/list.tmpl
	listTemplate string
	//go:embed templates/form.tmpl
	formTemplate string
	//go:embed templates/catalog.tmpl
	catalogTemplate string
	//go:embed templates/delivery.tmpl
	deliveryTemplate string

	listTmpl     = template.Must(template.New("list").Funcs(StandardFuncs).Parse(listTemplate))
	formTmpl     = template.Must(template.New("form").Funcs(StandardFuncs).Parse(formTemplate))
	catalogTmpl  = template.Must(template.New("catalog").Funcs(StandardFuncs).Parse(catalogTemplate))
	deliveryTmpl = template.Must(template.New("delivery").Funcs(StandardFuncs).Parse(deliveryTemplate))
)

type categoryView struct {
	Name     string
	Label    string
	Expanded bool
	Events   []string
}

type formView struct {
	Editing       bool
	EditingID     string
	Loading       bool
	Valid         bool
	Draft         models.Draft
	Categories    []categoryView
	Uncategorized []string
	SelectedText  string
}

type catalogView struct {
	Categories    []categoryView
	Uncategorized []string
}

type listView struct {
	Webhooks []models.Webhook
	Events   []string
}

// RenderList writes the webhook list, each webhook diffed against the full event catalog.
func RenderList(w io.Writer, s editor.State) error {
	if err := listTmpl.Execute(w, listView{Webhooks: s.Webhooks, Events: s.Events}); err != nil {
		return errors.Wrap(err, "failed to render webhook list")
	}
	return nil
}

// RenderForm writes the create/edit form with the category-grouped event picker.
func RenderForm(w io.Writer, s editor.State) error {
	data := formView{
		Editing:       s.Editing(),
		EditingID:     s.EditingID,
		Loading:       s.Loading,
		Valid:         editor.IsValidForm(s.Draft),
		Draft:         s.Draft,
		Uncategorized: catalog.Uncategorized(s.Events),
		SelectedText:  editor.SelectedEventsText(s.Draft),
		Categories:    categoriesOf(s.Events, s.Expanded),
	}
	if err := formTmpl.Execute(w, data); err != nil {
		return errors.Wrap(err, "failed to render webhook form")
	}
	return nil
}

// Render writes the form when it is open, the list otherwise.
func Render(w io.Writer, s editor.State) error {
	if s.ShowAddForm {
		return RenderForm(w, s)
	}
	return RenderList(w, s)
}

// RenderCatalog writes the event catalog grouped by category.
func RenderCatalog(w io.Writer, events []string) error {
	data := catalogView{Categories: categoriesOf(events, nil), Uncategorized: catalog.Uncategorized(events)}
	if err := catalogTmpl.Execute(w, data); err != nil {
		return errors.Wrap(err, "failed to render event catalog")
	}
	return nil
}

func categoriesOf(events []string, expanded map[string]bool) []categoryView {
	out := make([]categoryView, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		out = append(out, categoryView{
			Name:     c.Name,
			Label:    c.Label,
			Expanded: expanded[c.Name],
			Events:   catalog.EventsByCategory(events, c.Name),
		})
	}
	return out
}

// RenderDelivery writes a one-line summary of a received delivery followed by its payload.
func RenderDelivery(w io.Writer, d receiver.Delivery) error {
	if err := deliveryTmpl.Execute(w, d); err != nil {
		return errors.Wrap(err, "failed to render delivery")
	}
	return nil
}
