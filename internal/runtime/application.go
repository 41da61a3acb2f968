package runtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"streamctl/internal/controlplane"
	"streamctl/internal/orchestrator"
	"streamctl/internal/snapshotcfg"
	"streamctl/internal/watch"
	"streamctl/pkg/logging"
)

const subsystem = "Runtime"

// Application bootstraps and runs an Orchestrator: the domain core, the
// filesystem watch driving its reconciliation, and the control-plane
// listener exposing it to external callers.
type Application struct {
	cfg     *Config
	orch    *orchestrator.Orchestrator
	watcher *watch.Manager
	plane   *controlplane.Server
}

// New performs the complete bootstrap sequence: configures logging,
// constructs the Orchestrator, and wires the snapshot loader and
// control-plane server around it.
func New(cfg *Config) (*Application, error) {
	logLevel := logging.LevelInfo
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}
	logging.InitForCLI(logLevel, io.Writer(os.Stdout))

	orch := orchestrator.New(orchestrator.Config{MinAppID: cfg.MinAppID})

	loader := snapshotcfg.NewLoader(cfg.SnapshotDir)
	watcher := watch.New(watch.Config{
		SnapshotDir:    cfg.SnapshotDir,
		ResyncInterval: cfg.ResyncInterval,
	}, loader, orch)

	plane := controlplane.New(orch, cfg.AuthSigningKey)

	logging.Info(subsystem, "bootstrapped orchestrator, watching %s", cfg.SnapshotDir)

	return &Application{cfg: cfg, orch: orch, watcher: watcher, plane: plane}, nil
}

// Orchestrator returns the underlying Orchestrator, for callers (e.g. the
// `register-demo` command) that need direct access alongside the running
// watch/control-plane goroutines.
func (a *Application) Orchestrator() *orchestrator.Orchestrator { return a.orch }

// ControlPlane returns the control-plane server, e.g. to serve it over
// stdio with ServeStdio; no command of the CLI does so.
func (a *Application) ControlPlane() *controlplane.Server { return a.plane }

// Run starts the filesystem watch and, if an HTTP listen address is
// configured, the control-plane's streamable-HTTP transport, as sibling
// goroutines joined with errgroup.Group. It blocks until ctx is cancelled or
// a SIGINT/SIGTERM is received, then shuts down gracefully, notifying
// systemd of readiness and stopping along the way (§5.4, §2.1).
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.watcher.Run(gctx)
	})

	var httpServer *http.Server
	if a.cfg.ListenAddr != "" {
		handler := a.plane.NewStreamableHTTPHandler()
		httpServer = &http.Server{Addr: a.cfg.ListenAddr, Handler: handler}
		g.Go(func() error {
			logging.Info(subsystem, "control plane listening on %s", a.cfg.ListenAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("control plane listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return httpServer.Shutdown(context.Background())
		})
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn(subsystem, "systemd notify failed: %v", err)
	} else if ok {
		logging.Debug(subsystem, "notified systemd of readiness")
	}

	err := g.Wait()

	a.watcher.Stop()
	if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyStopping); notifyErr != nil {
		logging.Warn(subsystem, "systemd stopping notify failed: %v", notifyErr)
	}

	return err
}
