package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/isometry/webhook-manager/internal/controllers/aws"
	"github.com/isometry/webhook-manager/internal/controllers/webhook"
	"github.com/isometry/webhook-manager/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method    string
	Path      string
	Body      string
	Auth      string
	RequestID string
	User      string
	Password  string
}

type fakeService struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	user, pass, _ := r.BasicAuth()
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:    r.Method,
		Path:      r.URL.EscapedPath(),
		Body:      string(raw),
		Auth:      r.Header.Get("Authorization"),
		RequestID: r.Header.Get(webhook.RequestIDHeader),
		User:      user,
		Password:  pass,
	})
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeService) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestController(t *testing.T, svc *fakeService, opts ...webhook.Option) *webhook.Controller {
	t.Helper()
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	ctl, err := webhook.NewController(append([]webhook.Option{webhook.WithBaseURL(srv.URL + "/")}, opts...)...)
	require.NoError(t, err)
	return ctl
}

func TestListWebhooks(t *testing.T) {
	svc := &fakeService{body: `{"status":200,"code":"SUCCESS","results":[{"id":"1","url":"https://a","events":["qr"],"enabled":true,"description":"d"}]}`}
	ctl := newTestController(t, svc)

	webhooks, err := ctl.ListWebhooks(context.Background())
	require.NoError(t, err)
	require.Len(t, webhooks, 1)
	assert.Equal(t, "https://a", webhooks[0].URL)
	assert.Equal(t, "d", webhooks[0].Description)

	req := svc.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/webhook", req.Path)
	assert.NotEmpty(t, req.RequestID)
}

func TestListNullResults(t *testing.T) {
	svc := &fakeService{body: `{"status":200,"code":"SUCCESS","results":null}`}
	ctl := newTestController(t, svc)

	webhooks, err := ctl.ListWebhooks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, webhooks)
	assert.Empty(t, webhooks)

	events, err := ctl.ListEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
	assert.Equal(t, "/webhook/events", svc.last(t).Path)
}

func TestMutations(t *testing.T) {
	draft := models.Draft{URL: "https://x.com", Events: []string{"qr"}, Enabled: true}

	testCases := []struct {
		Name         string
		Call         func(ctl *webhook.Controller) error
		ExpectMethod string
		ExpectPath   string
		ExpectBody   string
	}{
		{
			Name:         "create",
			Call:         func(ctl *webhook.Controller) error { return ctl.CreateWebhook(context.Background(), draft) },
			ExpectMethod: http.MethodPost,
			ExpectPath:   "/webhook",
			ExpectBody:   `{"url":"https://x.com","secret":"","events":["qr"],"enabled":true,"description":""}`,
		},
		{
			Name:         "update_draft",
			Call:         func(ctl *webhook.Controller) error { return ctl.UpdateWebhook(context.Background(), "abc", draft) },
			ExpectMethod: http.MethodPut,
			ExpectPath:   "/webhook/abc",
			ExpectBody:   `{"url":"https://x.com","secret":"","events":["qr"],"enabled":true,"description":""}`,
		},
		{
			Name: "update_full_record",
			Call: func(ctl *webhook.Controller) error {
				return ctl.UpdateWebhook(context.Background(), "abc", models.Webhook{ID: "abc", URL: "https://x.com", Events: []string{"qr"}})
			},
			ExpectMethod: http.MethodPut,
			ExpectPath:   "/webhook/abc",
			ExpectBody:   `{"id":"abc","url":"https://x.com","events":["qr"],"enabled":false}`,
		},
		{
			Name:         "delete_escapes_id",
			Call:         func(ctl *webhook.Controller) error { return ctl.DeleteWebhook(context.Background(), "a/b") },
			ExpectMethod: http.MethodDelete,
			ExpectPath:   "/webhook/a%2Fb",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			svc := &fakeService{body: `{"status":200,"code":"SUCCESS","results":null}`}
			ctl := newTestController(t, svc)

			require.NoError(t, tc.Call(ctl))

			req := svc.last(t)
			assert.Equal(t, tc.ExpectMethod, req.Method)
			assert.Equal(t, tc.ExpectPath, req.Path)
			if tc.ExpectBody != "" {
				assert.JSONEq(t, tc.ExpectBody, req.Body)
			} else {
				assert.Empty(t, req.Body)
			}
		})
	}
}

func TestRequestErrors(t *testing.T) {
	testCases := []struct {
		Name          string
		Status        int
		Body          string
		ExpectMessage string
	}{
		{
			Name:          "server_message",
			Status:        http.StatusBadRequest,
			Body:          `{"status":400,"code":"VALIDATION_ERROR","message":"URL scheme must be http or https"}`,
			ExpectMessage: "URL scheme must be http or https",
		},
		{
			Name:          "no_message",
			Status:        http.StatusInternalServerError,
			Body:          `oops`,
			ExpectMessage: "request failed with status code 500",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			svc := &fakeService{status: tc.Status, body: tc.Body}
			ctl := newTestController(t, svc)

			err := ctl.CreateWebhook(context.Background(), models.NewDraft())
			require.Error(t, err)

			var reqErr *webhook.RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tc.Status, reqErr.StatusCode)
			assert.Equal(t, tc.ExpectMessage, webhook.MessageOf(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	ctl, err := webhook.NewController(webhook.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = ctl.ListWebhooks(context.Background())
	require.Error(t, err)

	var reqErr *webhook.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.StatusCode)
	assert.Equal(t, err.Error(), webhook.MessageOf(err))
	assert.NotEmpty(t, webhook.MessageOf(err))
}

func TestMessageOf(t *testing.T) {
	assert.Empty(t, webhook.MessageOf(nil))
	assert.Equal(t, "plain", webhook.MessageOf(errors.New("plain")))
	wrapped := errors.Wrap(&webhook.RequestError{Message: "from server"}, "context")
	assert.Equal(t, "from server", webhook.MessageOf(wrapped))
}

func TestAuthentication(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		svc := &fakeService{body: `{"results":[]}`}
		ctl := newTestController(t, svc, webhook.WithAuthMode("token"), webhook.WithToken("t0k3n"))
		_, err := ctl.ListWebhooks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer t0k3n", svc.last(t).Auth)
	})

	t.Run("basic", func(t *testing.T) {
		svc := &fakeService{body: `{"results":[]}`}
		ctl := newTestController(t, svc, webhook.WithAuthMode("Basic"), webhook.WithBasicAuth("admin", "pw"))
		_, err := ctl.ListWebhooks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin", svc.last(t).User)
		assert.Equal(t, "pw", svc.last(t).Password)
	})

	t.Run("none", func(t *testing.T) {
		svc := &fakeService{body: `{"results":[]}`}
		ctl := newTestController(t, svc)
		_, err := ctl.ListWebhooks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, svc.last(t).Auth)
	})
}

func TestNewControllerValidation(t *testing.T) {
	testCases := []struct {
		Name string
		Opts []webhook.Option
	}{
		{
			Name: "missing_url",
		},
		{
			Name: "token_without_token",
			Opts: []webhook.Option{webhook.WithBaseURL("http://localhost"), webhook.WithAuthMode("token")},
		},
		{
			Name: "basic_without_user",
			Opts: []webhook.Option{webhook.WithBaseURL("http://localhost"), webhook.WithAuthMode("basic")},
		},
		{
			Name: "ssm_without_aws",
			Opts: []webhook.Option{webhook.WithBaseURL("http://localhost"), webhook.WithAuthMode("ssm")},
		},
		{
			Name: "unknown_mode",
			Opts: []webhook.Option{webhook.WithBaseURL("http://localhost"), webhook.WithAuthMode("kerberos")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := webhook.NewController(tc.Opts...)
			assert.Error(t, err)
		})
	}
}

// newSSMController returns an AWS controller whose SSM parameter store holds params.
func newSSMController(t *testing.T, params map[string]string) *aws.Controller {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Name string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/x-amz-json-1.1")
		value, ok := params[in.Name]
		if r.Header.Get("X-Amz-Target") != "AmazonSSM.GetParameter" || !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"__type":"ParameterNotFound","message":"parameter not found"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Parameter": map[string]any{"Name": in.Name, "Type": "SecureString", "Value": value},
		})
	}))
	t.Cleanup(srv.Close)

	ctl, err := aws.NewController(aws.WithConfig(&awssdk.Config{
		Region:           "eu-west-1",
		BaseEndpoint:     awssdk.String(srv.URL),
		RetryMaxAttempts: 1,
		Credentials: awssdk.CredentialsProviderFunc(func(context.Context) (awssdk.Credentials, error) {
			return awssdk.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
		}),
	}))
	require.NoError(t, err)
	return ctl
}

func TestSSMAuth(t *testing.T) {
	awsController := newSSMController(t, map[string]string{"/webhook-manager/token": " t0k3n\n"})

	t.Run("token_from_parameter", func(t *testing.T) {
		svc := &fakeService{body: `{"results":[]}`}
		ctl := newTestController(t, svc,
			webhook.WithAuthMode("ssm"),
			webhook.WithSSMKey("/webhook-manager/token"),
			webhook.WithAWSController(awsController))

		_, err := ctl.ListWebhooks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer t0k3n", svc.last(t).Auth)
	})

	t.Run("missing_parameter", func(t *testing.T) {
		_, err := webhook.NewController(
			webhook.WithBaseURL("http://localhost"),
			webhook.WithAuthMode("ssm"),
			webhook.WithSSMKey("/webhook-manager/missing"),
			webhook.WithAWSController(awsController))
		assert.ErrorContains(t, err, "failed to fetch credentials from SSM")
	})
}

func TestSecretIsSent(t *testing.T) {
	svc := &fakeService{body: `{}`}
	ctl := newTestController(t, svc)

	require.NoError(t, ctl.CreateWebhook(context.Background(), models.Draft{URL: "https://x", Secret: "hunter2", Events: []string{"qr"}}))

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(svc.last(t).Body), &sent))
	assert.Equal(t, "hunter2", sent["secret"])
}
