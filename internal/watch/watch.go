// Package watch detects changes to the virtual-host snapshot and drives
// the Reconciler: a debounced filesystem watch for edits to the snapshot
// directory, plus a periodic resync ticker as a backstop against missed
// or coalesced events.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/client-go/util/retry"

	"streamctl/internal/vhost"
	"streamctl/pkg/logging"
)

const subsystem = "Watch"

// SnapshotLoader reads the current virtual-host configuration snapshot
// from wherever it is stored (internal/snapshotcfg's filesystem loader, in
// this repository).
type SnapshotLoader interface {
	Load() ([]vhost.HostConfig, error)
}

// Applier is the subset of the Orchestrator the watcher drives.
type Applier interface {
	ApplyOriginMap(ctx context.Context, hosts []vhost.HostConfig) bool
}

// Config configures a Manager.
type Config struct {
	// SnapshotDir is watched for .yaml/.yml changes.
	SnapshotDir string
	// ResyncInterval is the periodic backstop apply period. Zero disables it.
	ResyncInterval time.Duration
	// DebounceInterval coalesces rapid successive filesystem events.
	DebounceInterval time.Duration
}

// Manager owns the filesystem watch and the periodic resync ticker. Its
// own ApplyOriginMap calls (startup, resync and debounced filesystem
// changes) run one at a time, serialized by its mutex (see DESIGN.md's
// "per-VirtualHost concurrent apply" decision).
type Manager struct {
	cfg     Config
	loader  SnapshotLoader
	applier Applier

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
}

// New creates a watch Manager.
func New(cfg Config, loader SnapshotLoader, applier Applier) *Manager {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 500 * time.Millisecond
	}
	return &Manager{cfg: cfg, loader: loader, applier: applier, stopCh: make(chan struct{})}
}

// Run starts the filesystem watch and the periodic ticker and blocks until
// ctx is cancelled. An initial apply runs first, before the watch is
// started and the event loop is entered.
func (m *Manager) Run(ctx context.Context) error {
	m.applyOnce(ctx, "startup")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.watcher = watcher
	m.mu.Unlock()

	if err := watcher.Add(m.cfg.SnapshotDir); err != nil {
		watcher.Close()
		return err
	}

	var ticker *time.Ticker
	var tickCh <-chan time.Time
	if m.cfg.ResyncInterval > 0 {
		ticker = time.NewTicker(m.cfg.ResyncInterval)
		tickCh = ticker.C
		defer ticker.Stop()
	}

	logging.Info(subsystem, "watching %s for snapshot changes", m.cfg.SnapshotDir)

	for {
		select {
		case <-ctx.Done():
			watcher.Close()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isYAMLFile(event.Name) {
				continue
			}
			m.debounce(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error(subsystem, err, "filesystem watcher error")

		case <-tickCh:
			m.applyOnce(ctx, "periodic resync")
		}
	}
}

// debounce schedules a single apply after DebounceInterval, cancelling any
// previously scheduled one so a burst of writes (e.g. a multi-file
// checkout) triggers exactly one reconciliation pass.
func (m *Manager) debounce(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.cfg.DebounceInterval, func() {
		m.applyOnce(ctx, "filesystem change")
	})
}

// applyOnce loads the snapshot and applies it, retrying load failures with
// a bounded backoff since a transient read (e.g. a half-written file
// caught mid-write) should not be treated as a permanent configuration
// error.
func (m *Manager) applyOnce(ctx context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hosts []vhost.HostConfig
	err := retry.OnError(retry.DefaultBackoff, isRetriableLoadError, func() error {
		var loadErr error
		hosts, loadErr = m.loader.Load()
		return loadErr
	})
	if err != nil {
		logging.Error(subsystem, err, "failed to load snapshot for %s", reason)
		return
	}

	if !m.applier.ApplyOriginMap(ctx, hosts) {
		logging.Warn(subsystem, "reconciliation triggered by %s completed with failures", reason)
		return
	}
	logging.Debug(subsystem, "reconciliation triggered by %s applied cleanly", reason)
}

// isRetriableLoadError treats every load error as transient: the snapshot
// loader only fails on I/O or parse errors, both of which are worth a
// short retry before giving up and logging.
func isRetriableLoadError(err error) bool {
	return err != nil
}

// Stop releases the filesystem watcher, if running.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	if m.timer != nil {
		m.timer.Stop()
	}
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
