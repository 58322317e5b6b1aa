package webhook

import (
	"fmt"

	"github.com/pkg/errors"
)

// RequestError is returned for every failed call to the webhook service: transport failures
// (StatusCode == 0) as well as non-2xx responses.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the user-facing message: the server-provided one when present, else the transport's.
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	return e.Message
}

// UserMessage returns the message to surface to the user.
func (e *RequestError) UserMessage() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

func newStatusError(method, path string, status int, serverMessage string) *RequestError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}
	return &RequestError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    msg,
	}
}

func newTransportError(method, path string, err error) *RequestError {
	return &RequestError{
		Method:  method,
		Path:    path,
		Message: err.Error(),
		Cause:   err,
	}
}

// MessageOf resolves the user-facing message carried by err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}
