// Package orchestrator wires together the module registry, the
// VirtualHost configuration tree, the reconciler, the name resolver, the
// application coordinator, and the pull-stream dispatcher into the single
// coordinator object described by §9's "clean reimplementation": an
// explicitly-constructed Orchestrator threaded through the modules that
// need it, rather than a process-wide singleton, so tests can instantiate
// independent instances.
package orchestrator

import (
	"context"

	"streamctl/internal/coordinate"
	"streamctl/internal/dispatch"
	"streamctl/internal/module"
	"streamctl/internal/orcherrors"
	"streamctl/internal/reconcile"
	"streamctl/internal/resolve"
	"streamctl/internal/vhost"
	"streamctl/internal/vhoststore"
)

// DefaultMinAppID is the default starting value for the app_id counter
// when Config.MinAppID is left at zero.
const DefaultMinAppID = 1

// Config configures a new Orchestrator.
type Config struct {
	// MinAppID is the first app_id handed out; defaults to DefaultMinAppID.
	MinAppID uint32
}

// Orchestrator is the process-wide coordinator described in spec §2. It
// reaches two independent locks: the vhoststore.Store's own mutex (the
// "virtual-host map" lock) and the module registry's own mutex. Neither is
// acquired while the other is held, so the two are never nested.
type Orchestrator struct {
	registry    *module.Registry
	store       *vhoststore.Store
	coordinator *coordinate.Coordinator
	reconciler  *reconcile.Reconciler
	scheme      *dispatch.SchemeDispatcher
	pull        *dispatch.PullDispatcher
}

// New constructs an Orchestrator with fresh, empty state.
func New(cfg Config) *Orchestrator {
	minID := cfg.MinAppID
	if minID == 0 {
		minID = DefaultMinAppID
	}

	registry := module.NewRegistry()
	store := vhoststore.New()
	ids := coordinate.NewIDAllocator(minID)
	coordinator := coordinate.New(registry, ids)
	reconciler := reconcile.New(store, coordinator)
	scheme := dispatch.NewSchemeDispatcher(registry)
	pull := dispatch.NewPullDispatcher(store, scheme, coordinator)

	return &Orchestrator{
		registry:    registry,
		store:       store,
		coordinator: coordinator,
		reconciler:  reconciler,
		scheme:      scheme,
		pull:        pull,
	}
}

// RegisterModule implements §4.1 Register.
func (o *Orchestrator) RegisterModule(m module.Module) bool {
	return o.registry.Register(m)
}

// UnregisterModule implements §4.1 Unregister.
func (o *Orchestrator) UnregisterModule(m module.Module) bool {
	return o.registry.Unregister(m)
}

// ModulesOfKind implements §4.1 ModulesOfKind.
func (o *Orchestrator) ModulesOfKind(kind module.Kind) []module.Module {
	return o.registry.ModulesOfKind(kind)
}

// ApplyOriginMap implements the Reconciler entry point (§4.3).
func (o *Orchestrator) ApplyOriginMap(ctx context.Context, hosts []vhost.HostConfig) bool {
	return o.reconciler.ApplyOriginMap(ctx, hosts)
}

// ProviderForScheme implements the Scheme Dispatcher (§4.2).
func (o *Orchestrator) ProviderForScheme(scheme string) (module.Provider, error) {
	return o.scheme.ProviderForScheme(scheme)
}

// ProviderForURL implements the Scheme Dispatcher (§4.2).
func (o *Orchestrator) ProviderForURL(rawURL string) (module.Provider, error) {
	return o.scheme.ProviderForURL(rawURL)
}

// RequestPullStream is the explicit-URL pull entry point (§4.6).
func (o *Orchestrator) RequestPullStream(ctx context.Context, vhostApp, streamName, url string, offset int64) bool {
	return o.pull.RequestPullStreamURL(ctx, vhostApp, streamName, url, offset)
}

// RequestPullStreamByLocation is the location-based pull entry point (§4.6).
func (o *Orchestrator) RequestPullStreamByLocation(ctx context.Context, vhostApp, streamName string, offset int64) bool {
	return o.pull.RequestPullStreamLocation(ctx, vhostApp, streamName, offset)
}

// GetVhostNameFromDomain implements §4.4.
func (o *Orchestrator) GetVhostNameFromDomain(domain string) string {
	return resolve.VHostNameFromDomain(o.store, domain)
}

// ResolveApplicationName implements §4.4.
func (o *Orchestrator) ResolveApplicationName(vhostName, appName string) string {
	return resolve.ApplicationName(vhostName, appName)
}

// ResolveApplicationNameFromDomain implements §4.4.
func (o *Orchestrator) ResolveApplicationNameFromDomain(domain, appName string) (string, error) {
	return resolve.ApplicationNameFromDomain(o.store, domain, appName)
}

// ParseVHostAppName implements §4.4.
func (o *Orchestrator) ParseVHostAppName(canonical string) (vhostName, appName string, err error) {
	return resolve.ParseVHostAppName(canonical)
}

// GetVirtualHost returns a live VirtualHost by name, for introspection
// (e.g. the control plane's list/resolve tools).
func (o *Orchestrator) GetVirtualHost(name string) (*vhost.VirtualHost, bool) {
	return o.store.Get(name)
}

// ListVirtualHosts returns every live VirtualHost in configuration order.
func (o *Orchestrator) ListVirtualHosts() []*vhost.VirtualHost {
	return o.store.OrderedVirtualHosts()
}

// CreateApplication looks up a live VirtualHost by name and runs the
// Coordinator's create path on it directly, outside reconciliation. Most
// external callers go through ApplyOriginMap instead; the reconciler calls
// the Coordinator itself rather than this method.
func (o *Orchestrator) CreateApplication(ctx context.Context, vhostName string, cfg vhost.ApplicationConfig) (orcherrors.CreateOutcome, error) {
	vh, ok := o.store.Get(vhostName)
	if !ok {
		return orcherrors.CreateFailed, orcherrors.NewVHostNotFoundError(vhostName)
	}
	return o.coordinator.CreateApplication(ctx, vh, cfg), nil
}

// DeleteApplication exposes the Coordinator's delete path directly.
func (o *Orchestrator) DeleteApplication(ctx context.Context, vhostName, appName string) (orcherrors.DeleteOutcome, error) {
	vh, ok := o.store.Get(vhostName)
	if !ok {
		return orcherrors.DeleteFailed, orcherrors.NewVHostNotFoundError(vhostName)
	}
	return o.coordinator.DeleteApplication(ctx, vh, appName), nil
}
