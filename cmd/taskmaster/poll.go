package main

import (
	"github.com/spf13/cobra"
)

func pollCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Receive Telegram updates by long polling",
		Long:  "Runs the bot without a public URL. Any registered webhook is removed first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			logger.Info(ctx, "Starting Taskmaster bot (polling mode)...")

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.handler.Poll(ctx, cfg.Telegram.PollTimeout)
		},
	}
}
