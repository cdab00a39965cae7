// Package cli is the terminal frontend of the marketplace client. Every
// command goes through the session controller, so the command surface
// observes the same lifecycle rules as a graphical client would.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/artmarket/marketplace-client/internal/app/bootstrap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Marketplace account and onboarding client",
	Long: `marketctl drives the marketplace identity lifecycle from the terminal:
registration, email verification, login, role selection, artist document
submission and the administrator review queue.

Examples:
  marketctl register --email ana@example.com --name "Ana"
  marketctl verify-email --email ana@example.com --code 123456
  marketctl login --email ana@example.com
  marketctl status
  marketctl select-role artist
  marketctl submit-docs --id-document id.png --proof-of-work folio.pdf
  marketctl admin pending`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/default.yaml", "path to the configuration file")
}

// Execute runs the root command. It is the single entry point for cmd/marketctl.
func Execute() error {
	return rootCmd.Execute()
}

// loadRuntime builds the wired runtime for one command invocation. The CLI
// is short-lived, so every invocation restores the session from the token
// file and reconciles it before the command body runs.
func loadRuntime(cmd *cobra.Command) (*bootstrap.Runtime, error) {
	return bootstrap.NewRuntime(cmd.Context(), configPath)
}
