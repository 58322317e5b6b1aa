package view

import (
	"slices"
	"strings"
	"text/template"

	"github.com/isometry/webhook-manager/internal/catalog"
	"github.com/isometry/webhook-manager/internal/helpers"
	"go.yaml.in/yaml/v3"
)

// StandardFuncs is the set of functions available to the view templates.
var StandardFuncs = template.FuncMap{
	"formatEvent": catalog.FormatEventName,
	"selected": func(events []string, event string) bool {
		return slices.Contains(events, event)
	},
	"checkbox": func(checked bool) string {
		if checked {
			return "[x]"
		}
		return "[ ]"
	},
	"toYaml": func(v any) string {
		b, _ := yaml.Marshal(v)
		return string(b)
	},
	"truncate": helpers.Truncate,
	"mask":     helpers.MaskSecret,
	"join":     strings.Join,
	"addLinesPrefix": func(prefix, value string) string {
		return prefix + strings.Join(strings.Split(strings.TrimRight(value, "\n"), "\n"), "\n"+prefix)
	},
}
