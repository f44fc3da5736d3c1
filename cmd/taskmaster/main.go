package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "taskmaster-bot/docs" // Swagger docs
)

var version = "dev"

// @title       Taskmaster Bot API
// @description Telegram task tracker: webhook intake, health checks and docs.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "taskmaster",
		Short:         "Telegram bot for personal tasks with deadlines",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: config.yaml in ./config, . or /etc/taskmaster)")

	rootCmd.AddCommand(serveCmd(&configFile))
	rootCmd.AddCommand(pollCmd(&configFile))
	rootCmd.AddCommand(migrateCmd(&configFile))
	rootCmd.AddCommand(parseCmd(&configFile))
	rootCmd.AddCommand(gcalAuthCmd(&configFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
