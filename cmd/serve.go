package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"streamctl/internal/runtime"
)

var (
	serveDebug       bool
	serveSnapshotDir string
	serveListenAddr  string
	serveAuthKey     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Orchestrator: watch the snapshot directory and serve the control plane",
	Long: `serve starts the Orchestrator, watches --snapshot-dir for virtual-host
configuration changes, reconciles them continuously, and exposes the
control plane (apply/pull/list/resolve) over a streamable-HTTP MCP listener.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveSnapshotDir == "" {
		return fmt.Errorf("--snapshot-dir is required")
	}

	cfg := runtime.NewConfig(serveDebug, serveSnapshotDir)
	cfg.ListenAddr = serveListenAddr
	cfg.AuthSigningKey = serveAuthKey

	app, err := runtime.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveSnapshotDir, "snapshot-dir", "", "Directory holding virtual-host configuration YAML files")
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", ":8477", "Address the control plane's streamable-HTTP transport listens on")
	serveCmd.Flags().StringVar(&serveAuthKey, "auth-signing-key", "", "HMAC key required to sign bearer tokens for mutating control-plane calls (disabled if empty)")
}
