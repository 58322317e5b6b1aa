// Package catalog groups the webhook event catalog into display categories.
package catalog

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is a named, fixed set of event names used to partition the catalog for display.
type Category struct {
	Name   string
	Label  string
	Events []string
}

const (
	Connection = "connection"
	Message    = "message"
	Group      = "group"
	User       = "user"
	Other      = "other"
)

var (
	// Categories is the category table in display order.
	Categories = []Category{
		{
			Name:  Connection,
			Label: "Connection Events",
			Events: []string{
				"qr",
				"pair.success",
				"pair.error",
				"qr.scanned.without.multidevice",
				"connected",
				"keepalive.timeout",
				"keepalive.restored",
				"logged.out",
				"stream.replaced",
				"manual.login.reconnect",
				"temporary.ban",
				"connect.failure",
				"client.outdated",
				"cat.refresh.error",
				"stream.error",
				"disconnected",
			},
		},
		{
			Name:  Message,
			Label: "Message Events",
			Events: []string{
				"message",
				"message.ack",
				"fb.message",
				"undecryptable.message",
				"history.sync",
				"media.retry",
				"receipt.delivered",
				"receipt.read",
				"receipt.read.self",
				"receipt.played",
				"message.delete",
				"message.revoke",
			},
		},
		{
			Name:  Group,
			Label: "Group Events",
			Events: []string{
				"group",
				"group.join",
				"group.leave",
				"group.promote",
				"group.demote",
				"group.info",
				"group.picture",
			},
		},
		{
			Name:  User,
			Label: "User Events",
			Events: []string{
				"user.about",
				"user.picture",
				"identity.change",
				"privacy.settings",
				"presence",
				"chat.presence",
			},
		},
		{
			Name:  Other,
			Label: "Other Events",
			Events: []string{
				"blocklist",
				"newsletter.join",
				"newsletter.leave",
				"newsletter.mute.change",
				"newsletter.live.update",
				"offline.sync.preview",
				"offline.sync.completed",
			},
		},
	}

	// DefaultEvents mirrors the catalog served by the webhook service.
	DefaultEvents = func() []string {
		var events []string
		for _, c := range Categories {
			events = append(events, c.Events...)
		}
		return events
	}()
)

// Names returns the category names in display order.
func Names() []string {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		names = append(names, c.Name)
	}
	return names
}

// Lookup returns the category with the given name.
func Lookup(name string) (Category, bool) {
	i := slices.IndexFunc(Categories, func(c Category) bool { return c.Name == name })
	if i == -1 {
		return Category{}, false
	}
	return Categories[i], true
}

// EventsByCategory returns the entries of events that belong to the named category, in catalog order.
// Unknown categories yield an empty result.
func EventsByCategory(events []string, name string) []string {
	c, ok := Lookup(name)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, e := range events {
		if slices.Contains(c.Events, e) {
			out = append(out, e)
		}
	}
	return out
}

// Uncategorized returns the entries of events that do not belong to any category.
func Uncategorized(events []string) []string {
	out := []string{}
	for _, e := range events {
		if !slices.ContainsFunc(Categories, func(c Category) bool { return slices.Contains(c.Events, e) }) {
			out = append(out, e)
		}
	}
	return out
}

// DefaultExpansion returns the initial expansion state of the category view.
func DefaultExpansion() map[string]bool {
	expanded := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		expanded[c.Name] = c.Name == Connection
	}
	return expanded
}

// FormatEventName renders a dotted event name as a human label, e.g. "message.ack" becomes "Message Ack".
func FormatEventName(event string) string {
	words := strings.Split(event, ".")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
