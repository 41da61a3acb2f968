package dispatch

import (
	"context"

	"streamctl/internal/module"
	"streamctl/internal/orcherrors"
	"streamctl/internal/resolve"
	"streamctl/internal/vhost"
)

// VHostResolver is the minimal view of the live configuration tree the
// Pull-Stream Dispatcher needs: resolving a canonical vhost#app name back
// to its VirtualHost and the real application name.
type VHostResolver interface {
	resolve.VHostLister
	GetVirtualHost(name string) (*vhost.VirtualHost, bool)
}

// PullOwnerRecorder records which Origin or Domain rule caused a pending
// pull, so that a later OnCreateStream callback (§4.7) can attribute the
// resulting Stream to the right rule. Exactly one of origin/domain is set.
type PullOwnerRecorder interface {
	RecordPullOwner(vhostAppName, streamName string, origin *vhost.Origin, domain *vhost.Domain)
}

// PullDispatcher implements §4.6: resolve URLs, pick a provider by scheme,
// issue the pull.
type PullDispatcher struct {
	vhosts VHostResolver
	scheme *SchemeDispatcher
	owner  PullOwnerRecorder
}

// NewPullDispatcher wires the resolver, scheme dispatcher, and stream-owner
// recorder together.
func NewPullDispatcher(vhosts VHostResolver, scheme *SchemeDispatcher, owner PullOwnerRecorder) *PullDispatcher {
	return &PullDispatcher{vhosts: vhosts, scheme: scheme, owner: owner}
}

// RequestPullStreamURL is the explicit-URL entry point: an ad-hoc pull
// against a caller-supplied URL, no Origin/Domain resolution involved.
func (d *PullDispatcher) RequestPullStreamURL(ctx context.Context, vhostAppName, streamName, rawURL string, offset int64) bool {
	vhostName, appName, err := resolve.ParseVHostAppName(vhostAppName)
	if err != nil {
		return false
	}
	vh, ok := d.vhosts.GetVirtualHost(vhostName)
	if !ok {
		return false
	}
	info := module.ApplicationInfo{VHostName: vhostName, AppName: appName}
	if app, ok := vh.GetApplication(appName); ok {
		info.AppID = app.AppID
	}
	return d.pullFirstSuccess(ctx, info, streamName, []string{rawURL}, offset)
}

// RequestPullStreamLocation is the location-based entry point: URLs are
// derived from matching Origin rules for vhostAppName's application.
func (d *PullDispatcher) RequestPullStreamLocation(ctx context.Context, vhostAppName, streamName string, offset int64) bool {
	vhostName, appName, err := resolve.ParseVHostAppName(vhostAppName)
	if err != nil {
		return false
	}
	vh, ok := d.vhosts.GetVirtualHost(vhostName)
	if !ok {
		return false
	}

	urls, matched := d.urlListForLocation(vh, appName, streamName)
	if len(urls) == 0 {
		return false
	}
	if matched.origin != nil {
		d.owner.RecordPullOwner(vhostAppName, streamName, matched.origin, nil)
	} else if matched.domain != nil {
		d.owner.RecordPullOwner(vhostAppName, streamName, nil, matched.domain)
	}

	info := module.ApplicationInfo{VHostName: vhostName, AppName: appName}
	if app, ok := vh.GetApplication(appName); ok {
		info.AppID = app.AppID
	}
	return d.pullFirstSuccess(ctx, info, streamName, urls, offset)
}

type locationMatch struct {
	origin *vhost.Origin
	domain *vhost.Domain
}

// urlListForLocation implements GetUrlListForLocation (§4.6 step 2): it
// takes the single best-matching Origin and renders each entry of its
// url_list through resolve.RenderURL (a plain entry gets "/stream_name"
// appended; an entry that fails to render is skipped). The Origin is
// matched by longest-prefix on the app's path; ties are broken by
// declaration order (delegated to resolve.MatchLocation).
func (d *PullDispatcher) urlListForLocation(vh *vhost.VirtualHost, appName, streamName string) ([]string, locationMatch) {
	path := resolve.StreamPath(appName, streamName)
	matched, ok := resolve.MatchLocation(vh.Origins, path)
	if !ok {
		return nil, locationMatch{}
	}

	urls := make([]string, 0, len(matched.Origin.URLList))
	for _, base := range matched.Origin.URLList {
		rendered, err := resolve.RenderURL(base, appName, streamName)
		if err != nil {
			continue
		}
		urls = append(urls, rendered)
	}
	return urls, locationMatch{origin: matched.Origin}
}

// pullFirstSuccess extracts the scheme from each candidate URL in order,
// dispatches to the matching provider, and stops at the first success
// (§4.6 step 3). No retry policy is applied here (§4.6 step 4).
func (d *PullDispatcher) pullFirstSuccess(ctx context.Context, info module.ApplicationInfo, streamName string, urls []string, offset int64) bool {
	for _, candidate := range urls {
		provider, err := d.scheme.ProviderForURL(candidate)
		if err != nil {
			if orcherrors.IsSchemeUnsupported(err) {
				continue
			}
			continue
		}
		if provider.PullStream(ctx, info, streamName, candidate, offset) {
			return true
		}
	}
	return false
}
