// Package vhoststore holds the live VirtualHost map and the single mutex
// that guards it (the "virtual-host map" lock of §5). Lock order across the
// Orchestrator is vhost-map lock -> module registry lock; this package never
// acquires a module.Registry lock itself, which keeps that order trivially
// satisfied.
package vhoststore

import (
	"sync"

	"streamctl/internal/vhost"
)

// Store is the single source of truth for live VirtualHosts, keyed by name.
type Store struct {
	mu    sync.RWMutex
	hosts map[string]*vhost.VirtualHost
	// order preserves first-seen (configuration) order for deterministic
	// domain-resolution scans (§4.4).
	order []string
}

// New creates an empty store.
func New() *Store {
	return &Store{hosts: make(map[string]*vhost.VirtualHost)}
}

// Get returns the named VirtualHost, if present.
func (s *Store) Get(name string) (*vhost.VirtualHost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vh, ok := s.hosts[name]
	return vh, ok
}

// GetVirtualHost satisfies dispatch.VHostResolver.
func (s *Store) GetVirtualHost(name string) (*vhost.VirtualHost, bool) {
	return s.Get(name)
}

// GetOrCreate returns the named VirtualHost, creating a new StateNew one
// (appended to order) if it did not already exist. Returns the host and
// whether it was freshly created.
func (s *Store) GetOrCreate(name string) (vh *vhost.VirtualHost, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.hosts[name]; ok {
		return existing, false
	}
	vh = vhost.NewVirtualHost(name)
	s.hosts[name] = vh
	s.order = append(s.order, name)
	return vh, true
}

// Delete removes a VirtualHost entirely (used once every Application under
// it has been torn down during reconciliation).
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hosts, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// OrderedVirtualHosts returns every live VirtualHost in configuration
// (first-seen) order, satisfying resolve.VHostLister.
func (s *Store) OrderedVirtualHosts() []*vhost.VirtualHost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*vhost.VirtualHost, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.hosts[name])
	}
	return out
}

// Names returns the set of live VirtualHost names, for the reconciler's
// mark phase.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
