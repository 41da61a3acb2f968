package module

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the single source of truth for which modules are live and
// what kind each one advertises. Iteration order is registration order,
// used for deterministic fan-out during application create/delete (§4.5).
//
// The guarding mutex is re-entrant in spirit but sync.Mutex in Go is not
// re-entrant; callers that re-enter the registry from inside a module
// callback must do so through a fresh top-level call, never while holding
// Registry's own lock. The Orchestrator upholds this by never calling
// Register/Unregister from within an application create/delete fan-out
// (see internal/orchestrator), matching the lock-order rule in §5.
type Registry struct {
	mu      sync.Mutex
	ordered []Module
	byKind  map[Kind][]Module
	tokens  map[Module]string
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[Kind][]Module),
		tokens: make(map[Module]string),
	}
}

// Register inserts a module if it is not already present. Re-registering
// the same reference under a different Kind is rejected, since a module's
// kind is part of its identity for fan-out purposes. A freshly registered
// module is issued a unique registration token (see RegistrationToken),
// used to correlate its lifecycle in audit logs and diagnostics.
func (r *Registry) Register(m Module) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ordered {
		if existing == m {
			return existing.Kind() == m.Kind()
		}
	}

	r.ordered = append(r.ordered, m)
	r.byKind[m.Kind()] = append(r.byKind[m.Kind()], m)
	r.tokens[m] = uuid.NewString()
	return true
}

// RegistrationToken returns the unique token issued to m when it was
// registered, and false if m is not currently registered.
func (r *Registry) RegistrationToken(m Module) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[m]
	return tok, ok
}

// Unregister removes a module from both indexes. Returns false if the
// module was never registered.
func (r *Registry) Unregister(m Module) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := indexOf(r.ordered, m)
	if idx < 0 {
		return false
	}
	r.ordered = append(r.ordered[:idx], r.ordered[idx+1:]...)

	kind := m.Kind()
	kindList := r.byKind[kind]
	if kidx := indexOf(kindList, m); kidx >= 0 {
		r.byKind[kind] = append(kindList[:kidx], kindList[kidx+1:]...)
	}
	delete(r.tokens, m)
	return true
}

// ModulesOfKind returns, in registration order, every module registered
// under the given kind. Used for fan-out during application create/delete.
func (r *Registry) ModulesOfKind(kind Kind) []Module {
	r.mu.Lock()
	defer r.mu.Unlock()

	src := r.byKind[kind]
	out := make([]Module, len(src))
	copy(out, src)
	return out
}

// All returns every registered module in registration order.
func (r *Registry) All() []Module {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Module, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len reports how many modules are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ordered)
}

func indexOf(list []Module, m Module) int {
	for i, existing := range list {
		if existing == m {
			return i
		}
	}
	return -1
}

// Providers returns every registered Provider module, in registration order.
func (r *Registry) Providers() []Provider {
	modules := r.ModulesOfKind(KindProvider)
	out := make([]Provider, 0, len(modules))
	for _, m := range modules {
		if p, ok := m.(Provider); ok {
			out = append(out, p)
		}
	}
	return out
}

// MediaRouters returns every registered MediaRouter module, in registration order.
func (r *Registry) MediaRouters() []MediaRouter {
	modules := r.ModulesOfKind(KindMediaRouter)
	out := make([]MediaRouter, 0, len(modules))
	for _, m := range modules {
		if mr, ok := m.(MediaRouter); ok {
			out = append(out, mr)
		}
	}
	return out
}
