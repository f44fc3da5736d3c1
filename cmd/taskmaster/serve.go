package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskmaster-bot/internal/httpserver"
)

func serveCmd(configFile *string) *cobra.Command {
	var ngrokAPI string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Telegram webhook over HTTP",
		Long: `Starts the HTTP server with the Telegram webhook, health checks and Swagger docs.
The webhook is registered with Telegram using telegram.webhook_url, or the public URL of a
local ngrok tunnel when --ngrok-api is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			logger.Info(ctx, "Starting Taskmaster bot (webhook mode)...")
			logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := httpserver.New(logger, httpserver.Config{
				Logger:          logger,
				Port:            cfg.HTTPServer.Port,
				Mode:            cfg.HTTPServer.Mode,
				Environment:     cfg.Environment.Name,
				TelegramHandler: a.handler,
				Readiness:       a.db.PingContext,
			})
			if err != nil {
				return fmt.Errorf("init http server: %w", err)
			}

			webhookURL := cfg.Telegram.WebhookURL
			if ngrokAPI != "" {
				public, err := detectNgrokURL(ctx, ngrokAPI)
				if err != nil {
					logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
				} else {
					webhookURL = public
					logger.Infof(ctx, "Auto-detected ngrok URL: %s", public)
				}
			}
			if err := registerWebhook(ctx, a, webhookURL); err != nil {
				return err
			}

			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&ngrokAPI, "ngrok-api", "", "ngrok local API base, e.g. http://localhost:4040")
	return cmd
}

// registerWebhook points Telegram at base + the webhook path. An empty base leaves the
// current registration alone.
func registerWebhook(ctx context.Context, a *app, base string) error {
	if base == "" {
		a.l.Warn(ctx, "No webhook URL configured, Telegram registration skipped")
		return nil
	}
	url := strings.TrimSuffix(base, "/")
	if !strings.HasSuffix(url, httpserver.TelegramWebhookPath) {
		url += httpserver.TelegramWebhookPath
	}
	if err := a.bot.SetWebhook(ctx, url, a.cfg.Telegram.SecretToken); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	a.l.Infof(ctx, "Telegram webhook registered: %s", url)
	return nil
}
