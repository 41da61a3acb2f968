// Package runtime bootstraps the Orchestrator into a runnable process: it
// wires together the domain core, the filesystem watch, and the
// control-plane listener into a single long-lived application.
package runtime

import "time"

// Config holds the settings needed to bootstrap an Application.
type Config struct {
	// Debug enables debug-level logging.
	Debug bool

	// SnapshotDir is the directory holding the virtual-host configuration
	// snapshot (one YAML file per Host).
	SnapshotDir string

	// ResyncInterval is the periodic full-resync period. Zero disables it.
	ResyncInterval time.Duration

	// ListenAddr is the address the control plane's streamable-HTTP
	// transport listens on, e.g. ":8477". Empty disables the HTTP listener;
	// Run then serves no control-plane transport at all.
	ListenAddr string

	// MinAppID is the first AppID the Application Coordinator hands out.
	MinAppID uint32

	// AuthSigningKey, when non-empty, requires every mutating control-plane
	// tool call to carry a bearer JWT signed with this key (§4.8).
	AuthSigningKey string
}

// NewConfig creates a Config with the given debug flag and snapshot
// directory and a 5-minute ResyncInterval, leaving the remaining fields at
// their zero values for the caller to override.
func NewConfig(debug bool, snapshotDir string) *Config {
	return &Config{
		Debug:          debug,
		SnapshotDir:    snapshotDir,
		ResyncInterval: 5 * time.Minute,
	}
}
