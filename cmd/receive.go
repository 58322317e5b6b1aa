package cmd

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/isometry/webhook-manager/internal/config"
	"github.com/isometry/webhook-manager/internal/receiver"
	"github.com/isometry/webhook-manager/internal/view"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var receiveWebhookID string

func cmdReceive() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "receive",
		Aliases: []string{"listen", "serve"},
		Short:   "Serve a local endpoint printing the deliveries of the webhook service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := config.Receive.Secret
			if receiveWebhookID != "" {
				ctl, err := newWebhookController(cmd.Context())
				if err != nil {
					return err
				}
				w, err := ctl.GetWebhook(cmd.Context(), receiveWebhookID)
				if err != nil {
					return err
				}
				secret = w.Secret
			}

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			hdl := receiver.NewReceiver(
				receiver.WithSecret(secret),
				receiver.WithLogger(logger.With("component", "receiver")),
				receiver.WithDeliveryHandler(func(d receiver.Delivery) {
					mu.Lock()
					defer mu.Unlock()
					if err := view.RenderDelivery(out, d); err != nil {
						logger.Error("failed to render delivery", slog.Any("error", err))
					}
				}))

			h := http.NewServeMux()
			h.Handle(config.Receive.Path, hdl)
			s := &http.Server{
				Handler:      h,
				Addr:         net.JoinHostPort(config.Receive.Addr, config.Receive.Port),
				WriteTimeout: config.Receive.Timeout,
				ReadTimeout:  config.Receive.Timeout,
				IdleTimeout:  config.Receive.Timeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				_ = s.Shutdown(context.WithoutCancel(ctx))
			}()

			logger.Info("Serving...", "address", s.Addr, "path", config.Receive.Path, "timeout", config.Receive.Timeout.String(), "verify", secret != "")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "receiver stopped")
			}
			return nil
		},
	}

	receiveWebhookID = ""
	cmd.Flags().StringVar(&receiveWebhookID, "webhook-id", "", "Verify deliveries with the secret of this registered webhook")
	bindEnvMap(cmd, receiveEnvMapString)
	bindEnvMap(cmd, receiveEnvMapDuration)
	return cmd
}
