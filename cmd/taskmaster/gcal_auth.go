package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"taskmaster-bot/config"
	"taskmaster-bot/pkg/gcalendar"
)

func gcalAuthCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "gcal-auth",
		Short: "Authorise Google Calendar access and save the OAuth token",
		Long: `Runs the OAuth desktop flow once for google_calendar.credentials_path and writes the
resulting token to google_calendar.token_path. Service-account credentials need no token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCalendarConfig(*configFile)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cfg.CredentialsPath)
			if err != nil {
				return fmt.Errorf("read credentials %q: %w", cfg.CredentialsPath, err)
			}
			oauthCfg, err := gcalendar.OAuthConfig(data)
			if err != nil {
				return fmt.Errorf("%w (is %q an OAuth desktop app credentials file?)", err, cfg.CredentialsPath)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "1. Откройте ссылку в браузере и войдите в Google-аккаунт:")
			fmt.Fprintln(out)
			fmt.Fprintln(out, oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))
			fmt.Fprintln(out)
			fmt.Fprint(out, "2. Вставьте код авторизации и нажмите Enter: ")

			code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && code == "" {
				return fmt.Errorf("read authorization code: %w", err)
			}

			tok, err := oauthCfg.Exchange(cmd.Context(), strings.TrimSpace(code))
			if err != nil {
				return fmt.Errorf("exchange authorization code: %w", err)
			}
			if err := gcalendar.SaveToken(cfg.TokenPath, tok); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nТокен сохранён: %s\n", cfg.TokenPath)
			return nil
		},
	}
}

func loadCalendarConfig(file string) (config.GoogleCalendarConfig, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return config.GoogleCalendarConfig{}, fmt.Errorf("load config: %w", err)
	}
	if !cfg.GoogleCalendar.Enabled() {
		return config.GoogleCalendarConfig{}, fmt.Errorf("google_calendar.credentials_path is not set")
	}
	return cfg.GoogleCalendar, nil
}
