package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"streamctl/internal/cliclient"
	"streamctl/internal/controlplane"
	strutil "streamctl/pkg/strings"
)

var listEndpoint string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the virtual hosts known to a running streamctl serve instance",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := cliclient.New(listEndpoint)
	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", listEndpoint, err)
	}
	defer c.Close()

	raw, err := c.CallToolText(ctx, "orchestrator_list_vhosts", nil)
	if err != nil {
		return err
	}

	var hosts []controlplane.VHostSummary
	if err := json.Unmarshal([]byte(raw), &hosts); err != nil {
		return fmt.Errorf("parse result: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("VIRTUAL HOST"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("DOMAINS"),
	})
	for _, h := range hosts {
		domains := strutil.TruncateDescription(strings.Join(h.Domains, ", "), strutil.DefaultDescriptionMaxLen)
		t.AppendRow(table.Row{text.Colors{text.FgHiBlue, text.Bold}.Sprint(h.Name), domains})
	}
	t.Render()
	fmt.Printf("\n%s %d virtual host(s)\n", text.FgHiMagenta.Sprint("Total:"), len(hosts))
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listEndpoint, "endpoint", "http://localhost:8477/mcp", "Control-plane endpoint of a running streamctl serve instance")
}
