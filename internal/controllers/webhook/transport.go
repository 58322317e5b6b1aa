package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a unique identifier for every request sent to the webhook service.
const RequestIDHeader = "X-Request-ID"

const levelTrace = slog.Level(-8)

// loggingRoundTripper tags requests with a request ID and logs them at trace level.
type loggingRoundTripper struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	logger := l.logger.With(slog.String("requestId", req.Header.Get(RequestIDHeader)))

	var container any
	if req.Body != nil && req.Body != http.NoBody {
		raw, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(raw))
		_ = json.Unmarshal(raw, &container)
		if secretless, ok := container.(map[string]any); ok {
			if _, found := secretless["secret"]; found {
				secretless["secret"] = "<redacted>"
			}
		}
	}
	logger.Log(req.Context(), levelTrace, "sending request", slog.String("method", req.Method), slog.String("url", req.URL.String()), slog.Any("body", container))
	resp, err := l.next.RoundTrip(req)
	if err != nil {
		logger.Log(req.Context(), levelTrace, "failed to send request", slog.Any("error", err))
		return nil, err
	}
	logger.Log(req.Context(), levelTrace, "received response", slog.String("status", resp.Status))
	return resp, nil
}
