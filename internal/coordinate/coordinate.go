// Package coordinate implements the Application Coordinator (§4.5): it
// creates and deletes applications across every registered module
// transactionally, and observes stream birth/death from the MediaRouter
// (§4.7), attributing each Stream to whichever Origin or Domain rule
// caused its pull.
package coordinate

import (
	"context"
	"sync"
	"sync/atomic"

	"streamctl/internal/module"
	"streamctl/internal/orcherrors"
	"streamctl/internal/resolve"
	"streamctl/internal/vhost"
	"streamctl/pkg/logging"
)

const subsystem = "Coordinator"

// IDAllocator hands out strictly increasing app_ids starting at a
// configured minimum (§3).
type IDAllocator struct {
	next uint32
}

// NewIDAllocator creates an allocator whose first Next() call returns min.
func NewIDAllocator(min uint32) *IDAllocator {
	return &IDAllocator{next: min}
}

// Next returns the next app_id and advances the counter.
func (a *IDAllocator) Next() uint32 {
	return atomic.AddUint32(&a.next, 1) - 1
}

// pendingOwner records which rule (Origin xor Domain) caused a pull that
// has not yet produced a Stream.
type pendingOwner struct {
	origin *vhost.Origin
	domain *vhost.Domain
}

// Coordinator owns application create/delete fan-out and stream attribution.
type Coordinator struct {
	registry *module.Registry
	ids      *IDAllocator

	mu      sync.Mutex
	pending map[string]pendingOwner // "vhostApp|streamName" -> owner
}

// New creates a Coordinator backed by the given module registry and app_id
// allocator.
func New(registry *module.Registry, ids *IDAllocator) *Coordinator {
	return &Coordinator{
		registry: registry,
		ids:      ids,
		pending:  make(map[string]pendingOwner),
	}
}

// RecordPullOwner implements dispatch.PullOwnerRecorder.
func (c *Coordinator) RecordPullOwner(vhostAppName, streamName string, origin *vhost.Origin, domain *vhost.Domain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[pendingKey(vhostAppName, streamName)] = pendingOwner{origin: origin, domain: domain}
}

func pendingKey(vhostAppName, streamName string) string {
	return vhostAppName + "|" + streamName
}

// CreateApplication implements §4.5's create fan-out:
//  1. Exists check.
//  2. Allocate app_id, construct the application handle.
//  3. MediaRouter -> Providers -> Transcoder -> Publishers, in that order.
//  4. On any failure, roll back every module that already succeeded, in
//     reverse order, and return Failed.
//  5. On success, register the stream observer and insert into app_map.
func (c *Coordinator) CreateApplication(ctx context.Context, vh *vhost.VirtualHost, cfg vhost.ApplicationConfig) orcherrors.CreateOutcome {
	if _, exists := vh.GetApplication(cfg.Name); exists {
		return orcherrors.CreateExists
	}

	appID := c.ids.Next()
	info := module.ApplicationInfo{VHostName: vh.Name, AppName: cfg.Name, AppID: appID}

	fanout := c.createFanout()

	var succeeded []module.Module
	ok := true
	for _, m := range fanout {
		if m.OnCreateApplication(ctx, info) {
			succeeded = append(succeeded, m)
			continue
		}
		ok = false
		logging.Warn(subsystem, "module rejected create for application %s", info.CanonicalName())
		break
	}

	if !ok {
		for i := len(succeeded) - 1; i >= 0; i-- {
			succeeded[i].OnDeleteApplication(ctx, info)
		}
		return orcherrors.CreateFailed
	}

	for _, mr := range c.registry.MediaRouters() {
		mr.AddObserver(cfg.Name, c.observerFor(vh, info))
	}

	vh.PutApplication(&vhost.Application{AppID: appID, Name: cfg.Name, Config: cfg})
	return orcherrors.CreateSucceeded
}

// createFanout returns modules in the strict order §4.5 mandates:
// MediaRouter first (so downstream modules may subscribe to it during
// their own create), then Providers, then Transcoder, then Publishers.
func (c *Coordinator) createFanout() []module.Module {
	var out []module.Module
	out = append(out, c.registry.ModulesOfKind(module.KindMediaRouter)...)
	out = append(out, c.registry.ModulesOfKind(module.KindProvider)...)
	out = append(out, c.registry.ModulesOfKind(module.KindTranscoder)...)
	out = append(out, c.registry.ModulesOfKind(module.KindPublisher)...)
	return out
}

// DeleteApplication implements §4.5's reverse fan-out: Publishers ->
// Transcoder -> Providers -> MediaRouter. Failures are logged and the
// fan-out continues; the application is never revived.
func (c *Coordinator) DeleteApplication(ctx context.Context, vh *vhost.VirtualHost, appName string) orcherrors.DeleteOutcome {
	app, exists := vh.GetApplication(appName)
	if !exists {
		return orcherrors.DeleteNotExists
	}

	info := module.ApplicationInfo{VHostName: vh.Name, AppName: appName, AppID: app.AppID}

	failed := false
	for _, m := range c.deleteFanout() {
		if !m.OnDeleteApplication(ctx, info) {
			failed = true
			logging.Error(subsystem, nil, "module failed to delete application %s", info.CanonicalName())
		}
	}

	for _, mr := range c.registry.MediaRouters() {
		mr.RemoveObserver(appName)
	}

	vh.DeleteApplication(appName)

	if failed {
		return orcherrors.DeleteFailed
	}
	return orcherrors.DeleteSucceeded
}

func (c *Coordinator) deleteFanout() []module.Module {
	var out []module.Module
	out = append(out, c.registry.ModulesOfKind(module.KindPublisher)...)
	out = append(out, c.registry.ModulesOfKind(module.KindTranscoder)...)
	out = append(out, c.registry.ModulesOfKind(module.KindProvider)...)
	out = append(out, c.registry.ModulesOfKind(module.KindMediaRouter)...)
	return out
}

// observer implements module.StreamObserver, routing MediaRouter callbacks
// back into the VirtualHost's Origin/Domain stream maps (§4.7). Frame
// callbacks are never part of this interface: the Orchestrator never sees
// media frames.
type observer struct {
	c    *Coordinator
	vh   *vhost.VirtualHost
	info module.ApplicationInfo
}

func (c *Coordinator) observerFor(vh *vhost.VirtualHost, info module.ApplicationInfo) module.StreamObserver {
	return &observer{c: c, vh: vh, info: info}
}

// OnCreateStream attributes the new Stream to whichever Origin or Domain
// rule caused its pull, recorded earlier by RecordPullOwner. If no owner
// was recorded (the stream was not created through the Pull-Stream
// Dispatcher), the stream is attributed to nothing: a debug line is logged
// and the stream is not recorded anywhere.
func (o *observer) OnCreateStream(ctx context.Context, app module.ApplicationInfo, stream module.StreamInfo) {
	s := &vhost.Stream{StreamID: stream.StreamID, FullName: stream.FullName, AppID: app.AppID}

	o.c.mu.Lock()
	key := pendingKey(resolve.ApplicationName(app.VHostName, app.AppName), stream.StreamName)
	owner, ok := o.c.pending[key]
	if ok {
		delete(o.c.pending, key)
	}
	o.c.mu.Unlock()

	if !ok {
		logging.Debug(subsystem, "stream %s created with no recorded pull owner", s.FullName)
		return
	}
	switch {
	case owner.origin != nil:
		owner.origin.AddStream(s)
	case owner.domain != nil:
		owner.domain.AddStream(s)
	}
}

// OnDeleteStream removes the stream from wherever it was attributed. Since
// a Stream belongs to exactly one Origin or Domain, both are checked but
// only one will ever contain it.
func (o *observer) OnDeleteStream(ctx context.Context, app module.ApplicationInfo, stream module.StreamInfo) {
	for _, origin := range o.vh.Origins {
		if origin.RemoveStream(stream.StreamID) {
			return
		}
	}
	for _, domain := range o.vh.Domains {
		if domain.RemoveStream(stream.StreamID) {
			return
		}
	}
}
