package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// selfUpdateRepoSlug is the GitHub repository checked for newer releases.
const selfUpdateRepoSlug = "streamctl/streamctl"

var versionCheckUpdate bool

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the streamctl version",
		RunE:  runVersion,
	}
	cmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "Check GitHub for a newer release")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "streamctl version %s\n", rootCmd.Version)
	if !versionCheckUpdate {
		return nil
	}
	return checkForUpdate(cmd)
}

func checkForUpdate(cmd *cobra.Command) error {
	current := rootCmd.Version
	if current == "" || current == "dev" {
		return fmt.Errorf("cannot check for updates on a development build")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(selfUpdateRepoSlug))
	if err != nil {
		return fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", selfUpdateRepoSlug)
	}
	if !latest.GreaterThan(current) {
		fmt.Fprintln(cmd.OutOrStdout(), "streamctl is up to date.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "newer release available: %s (published %s)\n", latest.Version(), latest.PublishedAt)
	return nil
}
