// Package vhost holds the Orchestrator's configuration model: the tree of
// VirtualHost -> {Domain, Origin, Application} and the Stream objects
// attributed to whichever Domain or Origin rule caused their pull.
package vhost

import (
	"regexp"
	"strings"
	"sync"
)

// ItemState is the reconciliation lifecycle shared by VirtualHost, Domain,
// and Origin (§9: "best expressed as a tagged variant... shared only
// because all three happen to need the same lifecycle").
type ItemState int

const (
	StateUnknown ItemState = iota
	StateNew
	StateNeedToCheck
	StateNotChanged
	StateChanged
	StateDelete
	StateApplied
)

func (s ItemState) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateNeedToCheck:
		return "NeedToCheck"
	case StateNotChanged:
		return "NotChanged"
	case StateChanged:
		return "Changed"
	case StateDelete:
		return "Delete"
	case StateApplied:
		return "Applied"
	default:
		return "Unknown"
	}
}

// Strongest returns the stronger of two states under the ordering
// NotChanged < Changed < New/Delete, used to roll child states up into
// their parent's aggregate state (§4.3 step 5).
func Strongest(a, b ItemState) ItemState {
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func rank(s ItemState) int {
	switch s {
	case StateChanged:
		return 1
	case StateNew, StateDelete:
		return 2
	default:
		return 0
	}
}

// Application is a named media workspace within a VirtualHost.
type Application struct {
	AppID  uint32
	Name   string
	Config ApplicationConfig
}

// ApplicationConfig is the embedded, user-authored configuration for an
// Application, carried unchanged from an Origin's config blob into the
// Coordinator's CreateApplication call.
type ApplicationConfig struct {
	Name string         `json:"name" yaml:"name"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// Stream is a single live media flow produced by a Provider and attributed
// to exactly one Origin or one Domain, never both (§9 open question).
type Stream struct {
	StreamID   uint32
	FullName   string
	AppID      uint32
	ProviderID string
}

// Domain is a glob-style hostname pattern selecting a VirtualHost.
type Domain struct {
	Name    string
	State   ItemState
	streams map[uint32]*Stream

	mu       sync.Mutex
	compiled *regexp.Regexp // built by Recompile; nil if Name is an invalid pattern
}

// NewDomain builds a Domain and compiles its match pattern immediately.
func NewDomain(name string) *Domain {
	d := &Domain{Name: name, streams: make(map[uint32]*Stream)}
	d.Recompile()
	return d
}

// Recompile rebuilds the cached matcher from Name. An invalid pattern
// leaves compiled nil, which Matches treats as "never matches" rather
// than aborting (§4.4, §7: invalid domain regex is non-fatal).
func (d *Domain) Recompile() {
	d.mu.Lock()
	defer d.mu.Unlock()
	pattern, err := compileGlob(d.Name)
	if err != nil {
		d.compiled = nil
		return
	}
	d.compiled = pattern
}

// Matches reports whether host matches this domain's pattern.
func (d *Domain) Matches(host string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.compiled == nil {
		return false
	}
	return d.compiled.MatchString(host)
}

// AddStream attributes a stream to this domain's stream map.
func (d *Domain) AddStream(s *Stream) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.streams[s.StreamID] = s
}

// RemoveStream detaches a stream, returning false if it was not present.
func (d *Domain) RemoveStream(streamID uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.streams[streamID]; !ok {
		return false
	}
	delete(d.streams, streamID)
	return true
}

// Streams returns a snapshot of this domain's stream map.
func (d *Domain) Streams() map[uint32]*Stream {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[uint32]*Stream, len(d.streams))
	for k, v := range d.streams {
		out[k] = v
	}
	return out
}

// compileGlob turns a name pattern with '*'/'?' wildcards into an anchored
// regexp, escaping every other regex metacharacter first (§4.4).
func compileGlob(pattern string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	escaped = strings.ReplaceAll(escaped, `\?`, ".?")
	return regexp.Compile("^" + escaped + "$")
}

// Origin is a pull rule binding a URL-path location to a list of upstream
// media URLs sharing a scheme.
type Origin struct {
	Location string
	Scheme   string
	URLList  []string // raw URLs, scheme prefixed only at dispatch time (§9 open question)
	AppName  string
	AppConfig ApplicationConfig
	State    ItemState

	// PrevAppName is the application name this Origin pointed at before the
	// reconciler's diff pass overwrote AppName for a State == Changed
	// origin. It is what the apply phase must tear down before creating the
	// (possibly renamed) replacement application.
	PrevAppName string

	streams map[uint32]*Stream

	mu sync.Mutex
}

// NewOrigin constructs an Origin with an empty stream map.
func NewOrigin(location, scheme string, urls []string, appConfig ApplicationConfig) *Origin {
	return &Origin{
		Location:  location,
		Scheme:    scheme,
		URLList:   append([]string(nil), urls...),
		AppName:   appConfig.Name,
		AppConfig: appConfig,
		streams:   make(map[uint32]*Stream),
	}
}

// SameRule reports whether two origins describe the same pull rule content
// (scheme and URL list, ignoring State) — used by the reconciler's
// ProcessOriginList to decide NotChanged vs Changed (§4.3 step 4).
func (o *Origin) SameRule(other *Origin) bool {
	if o.Scheme != other.Scheme {
		return false
	}
	if len(o.URLList) != len(other.URLList) {
		return false
	}
	for i := range o.URLList {
		if o.URLList[i] != other.URLList[i] {
			return false
		}
	}
	return true
}

// AddStream attributes a stream to this origin's stream map.
func (o *Origin) AddStream(s *Stream) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streams[s.StreamID] = s
}

// RemoveStream detaches a stream, returning false if it was not present.
func (o *Origin) RemoveStream(streamID uint32) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.streams[streamID]; !ok {
		return false
	}
	delete(o.streams, streamID)
	return true
}

// Streams returns a snapshot of this origin's stream map.
func (o *Origin) Streams() map[uint32]*Stream {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[uint32]*Stream, len(o.streams))
	for k, v := range o.streams {
		out[k] = v
	}
	return out
}

// VirtualHost is a named configuration root grouping domains, origins, and
// applications.
type VirtualHost struct {
	Name    string
	State   ItemState
	Domains []*Domain
	Origins []*Origin

	mu      sync.RWMutex
	appMap  map[string]*Application // app name -> Application
}

// NewVirtualHost creates an empty VirtualHost in StateNew.
func NewVirtualHost(name string) *VirtualHost {
	return &VirtualHost{
		Name:   name,
		State:  StateNew,
		appMap: make(map[string]*Application),
	}
}

// GetApplication returns the named application, if any.
func (v *VirtualHost) GetApplication(name string) (*Application, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	app, ok := v.appMap[name]
	return app, ok
}

// PutApplication inserts or replaces an application in app_map (§4.5 step 5).
func (v *VirtualHost) PutApplication(app *Application) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.appMap[app.Name] = app
}

// DeleteApplication removes an application from app_map.
func (v *VirtualHost) DeleteApplication(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.appMap, name)
}

// Applications returns a snapshot of every application in this VirtualHost.
func (v *VirtualHost) Applications() []*Application {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*Application, 0, len(v.appMap))
	for _, app := range v.appMap {
		out = append(out, app)
	}
	return out
}
