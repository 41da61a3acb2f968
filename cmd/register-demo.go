package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"streamctl/internal/module"
	"streamctl/internal/runtime"
)

var (
	registerDemoSnapshotDir string
	registerDemoListenAddr  string
	registerDemoScheme      string
)

var registerDemoCmd = &cobra.Command{
	Use:   "register-demo",
	Short: "Run the Orchestrator with a demo Provider module registered",
	Long: `register-demo runs the same loop as "serve", but first registers a
DemoProvider module that logs every lifecycle callback and reports every
pull as an immediate success. It exists to demonstrate how an integrator
wires a real module.Provider into the Module Registry in Go, since the
control plane cannot construct arbitrary module handles over the wire.`,
	Args: cobra.NoArgs,
	RunE: runRegisterDemo,
}

func runRegisterDemo(cmd *cobra.Command, args []string) error {
	if registerDemoSnapshotDir == "" {
		return fmt.Errorf("--snapshot-dir is required")
	}

	providerType, ok := demoProviderTypeForScheme(registerDemoScheme)
	if !ok {
		return fmt.Errorf("unsupported --scheme %q", registerDemoScheme)
	}

	cfg := runtime.NewConfig(false, registerDemoSnapshotDir)
	cfg.ListenAddr = registerDemoListenAddr

	app, err := runtime.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap application: %w", err)
	}

	demo := runtime.NewDemoProvider(providerType)
	if !app.Orchestrator().RegisterModule(demo) {
		return fmt.Errorf("failed to register demo provider")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Run(ctx)
}

func demoProviderTypeForScheme(scheme string) (module.ProviderType, bool) {
	switch scheme {
	case "rtmp":
		return module.ProviderRTMP, true
	case "rtsp":
		return module.ProviderRTSPPull, true
	case "ovt":
		return module.ProviderOVT, true
	case "mpegts":
		return module.ProviderMPEGTS, true
	case "file":
		return module.ProviderFile, true
	case "scheduled":
		return module.ProviderScheduled, true
	default:
		return "", false
	}
}

func init() {
	rootCmd.AddCommand(registerDemoCmd)
	registerDemoCmd.Flags().StringVar(&registerDemoSnapshotDir, "snapshot-dir", "", "Directory holding virtual-host configuration YAML files")
	registerDemoCmd.Flags().StringVar(&registerDemoListenAddr, "listen", ":8477", "Address the control plane's streamable-HTTP transport listens on")
	registerDemoCmd.Flags().StringVar(&registerDemoScheme, "scheme", "rtmp", "Scheme the demo provider advertises (rtmp, rtsp, ovt, mpegts, file, scheduled)")
}
