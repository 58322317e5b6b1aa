package editor

import (
	"strings"

	"github.com/isometry/webhook-manager/internal/models"
	"github.com/pkg/errors"
)

// ErrBusy is returned by Submit while a previous submission is in flight.
var ErrBusy = errors.New("a submission is already in progress")

// ValidationError is returned by Submit when the draft cannot be submitted. It is never notified.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid webhook form: " + e.Reason
}

func validate(d models.Draft) error {
	if strings.TrimSpace(d.URL) == "" {
		return &ValidationError{Reason: "url is required"}
	}
	if len(d.Events) == 0 {
		return &ValidationError{Reason: "at least one event is required"}
	}
	return nil
}

// messageOf resolves the user-facing message of a failed request: the server's message when the
// error carries one, else the transport message.
func messageOf(err error) string {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		return m.UserMessage()
	}
	return err.Error()
}
