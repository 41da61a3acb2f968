package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"streamctl/internal/orcherrors"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates the requested virtual host does not exist.
	ExitCodeNotFound = 2
)

// rootCmd is the entry point when streamctl is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "streamctl",
	Short: "Control the media streaming orchestrator",
	Long: `streamctl drives a streaming Orchestrator: apply virtual-host
configuration snapshots, list live state, and request pull streams, either
against an in-process snapshot (apply) or a running "streamctl serve"
instance over its control plane (list, pull, shell).`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command, injected at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "streamctl version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	var notFound *orcherrors.VHostNotFoundError
	if errors.As(err, &notFound) {
		return ExitCodeNotFound
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
