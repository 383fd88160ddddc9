package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd starts the API server when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "publications",
	Short: "HTTP API over papers and their footnotes",
	Long: `publications serves list, lookup and create endpoints for papers and
footnotes backed by PostgreSQL (or SQLite for local development).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(configFile)
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file (default: config.yaml in . ./config /etc/publications)")
}
