package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd(configFile *string) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  "Applies the schema for the configured driver. With --down the schema is dropped, data included.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			db, err := openDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if down {
				if err := migrateDown(cfg.Database.Driver, db); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema dropped (%s)\n", cfg.Database.Driver)
				return nil
			}

			if err := migrateUp(cfg.Database.Driver, db); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "drop the schema instead of applying it")
	return cmd
}
