// Package commands implements the pricc CLI's subcommands.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time via ldflags.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	cfgFile  string
	apiAddr  string
	apiToken string
)

var rootCmd = &cobra.Command{
	Use:   "pricc",
	Short: "ISDN CCBS/CCNR call-completion controller",
	Long: `pricc runs the ISDN Call Completion (CCBS/CCNR) supplementary-service
controller for one or more D-channels, driven by an external Q.931 engine.

Use "pricc [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/pricc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", "http://127.0.0.1:8090", "admin API base address, for status/cancel")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "bearer token for the admin API (overrides PRICC_API_TOKEN)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cancelCmd)
}

func configFile() string {
	return cfgFile
}

func resolveAPIToken() string {
	if apiToken != "" {
		return apiToken
	}
	return os.Getenv("PRICC_API_TOKEN")
}
