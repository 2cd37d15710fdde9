// Package main implements the lazystandup CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "lazystandup",
	Short:        "Keep a todo list and turn it into daily standup notes",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

var globalFlags struct {
	configPath string
	dbPath     string
	dir        string
	url        string
	logLevel   string
	today      string
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.configPath, "config", "", "config file path")
	flags.StringVar(&globalFlags.dbPath, "db", "", "sqlite db path")
	flags.StringVar(&globalFlags.dir, "dir", "", "standups directory")
	flags.StringVar(&globalFlags.url, "url", "", "base URL to fetch standups from instead of the directory")
	flags.StringVar(&globalFlags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&globalFlags.today, "today", "", "treat this YYYY-MM-DD date as today")
}
