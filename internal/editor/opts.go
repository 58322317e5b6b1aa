package editor

import "log/slog"

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger of the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithNotifier sets the collaborator surfacing success and error messages.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) {
		e.notifier = n
	}
}

// WithConfirmer sets the collaborator asking for delete confirmation.
func WithConfirmer(c Confirmer) Option {
	return func(e *Editor) {
		e.confirmer = c
	}
}

// WithAfterRender registers a hook invoked once the form has been opened or a category expanded.
func WithAfterRender(fn func(State)) Option {
	return func(e *Editor) {
		e.afterRender = fn
	}
}
