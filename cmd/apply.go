package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"streamctl/internal/orchestrator"
	"streamctl/internal/snapshotcfg"
)

var applySnapshotDir string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile an in-process Orchestrator against a virtual-host configuration snapshot",
	Long: `apply loads every Host descriptor from --snapshot-dir and runs one
reconciliation pass against a fresh, in-process Orchestrator. It's meant for
validating a snapshot directory before pointing a running "streamctl serve"
instance at it; it does not register any modules, so pull-stream dispatch
always fails during this pass.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	if applySnapshotDir == "" {
		return fmt.Errorf("--snapshot-dir is required")
	}

	loader := snapshotcfg.NewLoader(applySnapshotDir)
	hosts, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Reconciling %d host(s)...", len(hosts))
	s.Start()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	orch := orchestrator.New(orchestrator.Config{})
	ok := orch.ApplyOriginMap(ctx, hosts)
	s.Stop()

	if !ok {
		return fmt.Errorf("reconciliation completed with failures")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d host(s) cleanly\n", len(hosts))
	return nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applySnapshotDir, "snapshot-dir", "", "Directory holding virtual-host configuration YAML files")
}
