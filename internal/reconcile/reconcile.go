// Package reconcile implements the Configuration Model & Reconciler (§4.3):
// ApplyOriginMap diffs an incoming snapshot against live VirtualHost state
// using the ItemState machine and applies the resulting creates/deletes
// through the Application Coordinator.
package reconcile

import (
	"context"

	"streamctl/internal/coordinate"
	"streamctl/internal/orcherrors"
	"streamctl/internal/vhost"
	"streamctl/internal/vhoststore"
	"streamctl/pkg/logging"
)

const subsystem = "Reconciler"

// Reconciler ties the live vhoststore.Store to the Application Coordinator.
// It does no locking of its own: concurrent ApplyOriginMap calls on one
// Reconciler are not safe, and callers serialize them.
type Reconciler struct {
	store       *vhoststore.Store
	coordinator *coordinate.Coordinator
}

// New creates a Reconciler.
func New(store *vhoststore.Store, coordinator *coordinate.Coordinator) *Reconciler {
	return &Reconciler{store: store, coordinator: coordinator}
}

// ApplyOriginMap is the entry point of §4.3: mark, diff, apply. Returns
// true only if every VirtualHost's apply phase completed without a module
// rejecting a create; per §7, a failure on one VirtualHost does not abort
// reconciliation of the others, but the aggregate result reflects whether
// anything failed.
func (r *Reconciler) ApplyOriginMap(ctx context.Context, hosts []vhost.HostConfig) bool {
	live := r.store.Names()
	seen := make(map[string]bool, len(hosts))

	overallOK := true

	// Diff + apply phase for every host present in the incoming snapshot.
	for _, hostCfg := range hosts {
		seen[hostCfg.Name] = true
		vh, created := r.store.GetOrCreate(hostCfg.Name)
		if created {
			r.applyNewHost(vh, hostCfg)
		} else {
			r.diffHost(vh, hostCfg)
		}

		if !r.applyForVirtualHost(ctx, vh) {
			overallOK = false
		}
	}

	// Mark phase's counterpart: any live VirtualHost absent from the
	// snapshot is deleted in its entirety.
	for _, name := range live {
		if seen[name] {
			continue
		}
		vh, ok := r.store.Get(name)
		if !ok {
			continue
		}
		if !r.deleteVirtualHost(ctx, vh) {
			overallOK = false
		}
		r.store.Delete(name)
	}

	return overallOK
}

// applyNewHost marks every child New on a freshly created VirtualHost.
func (r *Reconciler) applyNewHost(vh *vhost.VirtualHost, cfg vhost.HostConfig) {
	vh.State = vhost.StateNew
	vh.Domains = make([]*vhost.Domain, 0, len(cfg.Domains))
	for _, d := range cfg.Domains {
		domain := vhost.NewDomain(d.Name)
		domain.State = vhost.StateNew
		vh.Domains = append(vh.Domains, domain)
	}
	vh.Origins = make([]*vhost.Origin, 0, len(cfg.Origins))
	for _, o := range cfg.Origins {
		origin := vhost.NewOrigin(o.Location, o.Pass.Scheme, o.Pass.URLList, o.Application)
		origin.State = vhost.StateNew
		vh.Origins = append(vh.Origins, origin)
	}
}

// diffHost implements steps 2-5 of §4.3 for an already-live VirtualHost:
// mark every child NeedToCheck, diff domains and origins against the
// snapshot, then roll the strongest child state up to the host.
func (r *Reconciler) diffHost(vh *vhost.VirtualHost, cfg vhost.HostConfig) {
	for _, d := range vh.Domains {
		d.State = vhost.StateNeedToCheck
	}
	for _, o := range vh.Origins {
		o.State = vhost.StateNeedToCheck
	}

	vh.Domains = processDomainList(vh.Domains, cfg.Domains)
	vh.Origins = processOriginList(vh.Origins, cfg.Origins)

	aggregate := vhost.StateNotChanged
	for _, d := range vh.Domains {
		aggregate = vhost.Strongest(aggregate, d.State)
	}
	for _, o := range vh.Origins {
		aggregate = vhost.Strongest(aggregate, o.State)
	}
	vh.State = aggregate
}

// processDomainList implements ProcessDomainList (§4.3 step 3): match by
// name; new entries become New, missing entries become Delete, present
// entries become NotChanged (domains have no mutable fields beyond their
// name pattern).
func processDomainList(live []*vhost.Domain, incoming []vhost.DomainConfig) []*vhost.Domain {
	byName := make(map[string]*vhost.Domain, len(live))
	for _, d := range live {
		byName[d.Name] = d
	}

	out := make([]*vhost.Domain, 0, len(incoming))
	for _, cfg := range incoming {
		if existing, ok := byName[cfg.Name]; ok {
			existing.State = vhost.StateNotChanged
			out = append(out, existing)
			delete(byName, cfg.Name)
			continue
		}
		fresh := vhost.NewDomain(cfg.Name)
		fresh.State = vhost.StateNew
		out = append(out, fresh)
	}
	// Whatever remains in byName was live but absent from the snapshot.
	for _, d := range byName {
		d.State = vhost.StateDelete
		out = append(out, d)
	}
	return out
}

// processOriginList implements ProcessOriginList (§4.3 step 4): match by
// location; compare scheme and url_list for Changed vs NotChanged; new ->
// New; missing -> Delete.
func processOriginList(live []*vhost.Origin, incoming []vhost.OriginConfig) []*vhost.Origin {
	byLocation := make(map[string]*vhost.Origin, len(live))
	for _, o := range live {
		byLocation[o.Location] = o
	}

	out := make([]*vhost.Origin, 0, len(incoming))
	for _, cfg := range incoming {
		candidate := vhost.NewOrigin(cfg.Location, cfg.Pass.Scheme, cfg.Pass.URLList, cfg.Application)
		if existing, ok := byLocation[cfg.Location]; ok {
			if existing.SameRule(candidate) {
				existing.State = vhost.StateNotChanged
			} else {
				existing.PrevAppName = existing.AppName
				existing.URLList = candidate.URLList
				existing.Scheme = candidate.Scheme
				existing.AppName = candidate.AppName
				existing.AppConfig = candidate.AppConfig
				existing.State = vhost.StateChanged
			}
			out = append(out, existing)
			delete(byLocation, cfg.Location)
			continue
		}
		candidate.State = vhost.StateNew
		out = append(out, candidate)
	}
	for _, o := range byLocation {
		o.State = vhost.StateDelete
		out = append(out, o)
	}
	return out
}

// applyForVirtualHost implements ApplyForVirtualHost (§4.3 step 6):
// deletions precede creations, and after apply every surviving item
// returns to Applied. A Changed origin is applied as a delete of its
// previous application followed by a create of its (possibly renamed)
// replacement, so a location rename (treated as delete of the old location
// plus create of the new one) never collides with a same-named application
// that is only being renamed.
func (r *Reconciler) applyForVirtualHost(ctx context.Context, vh *vhost.VirtualHost) bool {
	ok := true

	for _, o := range vh.Origins {
		switch o.State {
		case vhost.StateDelete:
			if result := r.coordinator.DeleteApplication(ctx, vh, o.AppName); result == orcherrors.DeleteFailed {
				ok = false
			}
		case vhost.StateChanged:
			if result := r.coordinator.DeleteApplication(ctx, vh, o.PrevAppName); result == orcherrors.DeleteFailed {
				ok = false
			}
		}
	}

	survivingOrigins := vh.Origins[:0]
	for _, o := range vh.Origins {
		switch o.State {
		case vhost.StateDelete:
			continue // dropped from the surviving list
		case vhost.StateNew, vhost.StateChanged:
			if result := r.coordinator.CreateApplication(ctx, vh, o.AppConfig); result == orcherrors.CreateFailed {
				ok = false
				logging.Error(subsystem, nil, "create failed for origin %s application %s", o.Location, o.AppConfig.Name)
			}
		}
		o.State = vhost.StateApplied
		o.PrevAppName = ""
		survivingOrigins = append(survivingOrigins, o)
	}
	vh.Origins = survivingOrigins

	survivingDomains := vh.Domains[:0]
	for _, d := range vh.Domains {
		if d.State == vhost.StateDelete {
			continue
		}
		d.State = vhost.StateApplied
		survivingDomains = append(survivingDomains, d)
	}
	vh.Domains = survivingDomains

	vh.State = vhost.StateApplied
	return ok
}

// deleteVirtualHost tears down every application in a VirtualHost that
// vanished from the snapshot entirely.
func (r *Reconciler) deleteVirtualHost(ctx context.Context, vh *vhost.VirtualHost) bool {
	ok := true
	for _, app := range vh.Applications() {
		if result := r.coordinator.DeleteApplication(ctx, vh, app.Name); result == orcherrors.DeleteFailed {
			ok = false
		}
	}
	return ok
}
