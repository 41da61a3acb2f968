package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"streamctl/internal/cliclient"
)

var shellEndpoint string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive REPL for pull/list/resolve against a running streamctl serve instance",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := cliclient.New(shellEndpoint)
	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", shellEndpoint, err)
	}
	defer c.Close()

	historyFile := filepath.Join(os.TempDir(), ".streamctl_shell_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "streamctl» ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "streamctl shell. Type 'help' for commands, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}
		if err := executeShellCommand(ctx, c, input); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %v\n", err)
		}
	}
}

func executeShellCommand(ctx context.Context, c *cliclient.Client, input string) error {
	fields := strings.Fields(input)
	switch fields[0] {
	case "help":
		fmt.Println("commands: list | resolve <domain> | pull <vhost#app> <stream> [url] | exit")
		return nil

	case "list":
		text, err := c.CallToolText(ctx, "orchestrator_list_vhosts", nil)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil

	case "resolve":
		if len(fields) != 2 {
			return fmt.Errorf("usage: resolve <domain>")
		}
		text, err := c.CallToolText(ctx, "orchestrator_resolve_domain", map[string]any{"domain": fields[1]})
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil

	case "pull":
		if len(fields) < 3 {
			return fmt.Errorf("usage: pull <vhost#app> <stream> [url]")
		}
		toolArgs := map[string]any{"vhost_app": fields[1], "stream_name": fields[2]}
		if len(fields) > 3 {
			toolArgs["url"] = fields[3]
		}
		text, err := c.CallToolText(ctx, "orchestrator_pull", toolArgs)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil

	default:
		return fmt.Errorf("unknown command %q, type 'help'", fields[0])
	}
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringVar(&shellEndpoint, "endpoint", "http://localhost:8477/mcp", "Control-plane endpoint of a running streamctl serve instance")
}
