package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/controllers/aws"
	"github.com/isometry/webhook-manager/internal/controllers/webhook"
	"github.com/isometry/webhook-manager/internal/editor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// terminal is the Notifier and Confirmer of the cli.
type terminal struct {
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	logger    *slog.Logger
	assumeYes bool
	// reported is set once an error has been shown.
	reported atomic.Bool
}

// shownError is a command error the terminal has already reported.
type shownError struct {
	error
}

func (e *shownError) Unwrap() error {
	return e.error
}

func newTerminal(cmd *cobra.Command) *terminal {
	return &terminal{
		in:        bufio.NewReader(cmd.InOrStdin()),
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
		logger:    logger.With("component", "terminal"),
		assumeYes: config.Global.AssumeYes,
	}
}

func (t *terminal) ShowSuccessInfo(text string) {
	t.logger.Info(text)
	_, _ = fmt.Fprintln(t.out, text)
}

func (t *terminal) ShowErrorInfo(text string) {
	t.reported.Store(true)
	t.logger.Warn(text)
	_, _ = fmt.Fprintln(t.errOut, "Error: "+text)
}

// Confirm asks a y/N question on the terminal. End of input declines.
func (t *terminal) Confirm(_ context.Context, prompt string) (bool, error) {
	if t.assumeYes {
		return true, nil
	}
	_, _ = fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	line, err := t.readLine()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to read confirmation")
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// settle marks err as already shown when the terminal reported an error during the command.
func (t *terminal) settle(err error) error {
	if err == nil || !t.reported.Load() {
		return err
	}
	return &shownError{err}
}

// readLine returns the next trimmed input line. The last line may lack its newline.
func (t *terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	return strings.TrimSpace(line), err
}

func newWebhookController(ctx context.Context) (*webhook.Controller, error) {
	opts := []webhook.Option{
		webhook.WithContext(ctx),
		webhook.WithLogger(logger.With("component", "webhook-controller")),
		webhook.WithBaseURL(config.Server.URL),
		webhook.WithAuthMode(config.Server.AuthMode),
		webhook.WithBasicAuth(config.Server.Username, config.Server.Password),
		webhook.WithToken(config.Server.Token),
		webhook.WithSSMKey(config.Server.SSMKey),
		webhook.WithTimeout(config.Server.Timeout),
		webhook.WithInsecureSkipVerify(config.Server.InsecureSkipVerify),
	}
	if strings.EqualFold(strings.TrimSpace(config.Server.AuthMode), webhook.AuthModeSSM) {
		awsController, err := newAWSController(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, webhook.WithAWSController(awsController))
	}
	return webhook.NewController(opts...)
}

func newAWSController(ctx context.Context) (*aws.Controller, error) {
	logger.Debug("Creating AWS controller...")
	return aws.NewController(
		aws.WithContext(ctx),
		aws.WithLogger(logger.With("component", "aws-controller")),
		aws.WithS3Endpoint(config.Export.S3.Endpoint),
		aws.WithS3PathStyle(config.Export.S3.PathStyle))
}

// newSession wires the editor to the webhook service and the terminal.
func newSession(cmd *cobra.Command, opts ...editor.Option) (*editor.Editor, *webhook.Controller, *terminal, error) {
	ctl, err := newWebhookController(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	term := newTerminal(cmd)
	ed := editor.New(ctl, append([]editor.Option{
		editor.WithLogger(logger.With("component", "editor")),
		editor.WithNotifier(term),
		editor.WithConfirmer(term),
	}, opts...)...)
	return ed, ctl, term, nil
}
