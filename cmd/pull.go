package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"streamctl/internal/cliclient"
)

var (
	pullEndpoint   string
	pullURL        string
	pullOffset     int64
	pullAuthToken  string
	pullVHostApp   string
	pullStreamName string
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Request a pull stream from a running streamctl serve instance",
	Long: `pull calls the orchestrator_pull control-plane tool against a running
"streamctl serve" instance, either with an explicit source URL (--url) or by
Origin/Domain location matching for the application's configured rules.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func runPull(cmd *cobra.Command, args []string) error {
	if pullVHostApp == "" || pullStreamName == "" {
		return fmt.Errorf("--vhost-app and --stream are required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := cliclient.New(pullEndpoint)
	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", pullEndpoint, err)
	}
	defer c.Close()

	toolArgs := map[string]any{
		"vhost_app":   pullVHostApp,
		"stream_name": pullStreamName,
		"offset":      pullOffset,
	}
	if pullURL != "" {
		toolArgs["url"] = pullURL
	}
	if pullAuthToken != "" {
		toolArgs["auth_token"] = pullAuthToken
	}

	result, err := c.CallToolText(ctx, "orchestrator_pull", toolArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().StringVar(&pullEndpoint, "endpoint", "http://localhost:8477/mcp", "Control-plane endpoint of a running streamctl serve instance")
	pullCmd.Flags().StringVar(&pullVHostApp, "vhost-app", "", `Canonical "vhost#app" application name`)
	pullCmd.Flags().StringVar(&pullStreamName, "stream", "", "Name of the stream to pull")
	pullCmd.Flags().StringVar(&pullURL, "url", "", "Explicit source URL; omit to resolve via Origin/Domain location matching")
	pullCmd.Flags().Int64Var(&pullOffset, "offset", 0, "Byte offset to resume from, if the provider supports it")
	pullCmd.Flags().StringVar(&pullAuthToken, "auth-token", "", "Bearer token, required when the server enforces authentication")
}
