package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskmaster-bot/config"
	"taskmaster-bot/pkg/datemath"
)

func parseCmd(configFile *string) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Resolve a deadline phrase against now",
		Example: `  taskmaster parse "завтра 18:00"
  taskmaster parse "через 2 часа" --at 2025-03-10T12:00`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			parser, err := datemath.NewParser(cfg.Timezone)
			if err != nil {
				return err
			}

			reference := time.Now()
			if at != "" {
				reference, err = time.ParseInLocation("2006-01-02T15:04", at, parser.Location())
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}

			res, err := parser.ParseDetailed(strings.Join(args, " "), reference)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "local:   %s\n", parser.FormatLocal(res.Instant))
			fmt.Fprintf(out, "utc:     %s\n", res.Instant.Format(time.RFC3339))
			fmt.Fprintf(out, "rule:    %s\n", res.Rule)
			if res.DefaultTime {
				fmt.Fprintln(out, "note:    default time of day applied")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "reference time in the configured timezone, YYYY-MM-DDTHH:MM")
	return cmd
}
