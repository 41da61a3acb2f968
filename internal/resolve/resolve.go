// Package resolve implements the Orchestrator's name-resolution rules:
// domain -> vhost, canonical "vhost#app" naming, and location-prefix
// matching against Origin rules (§4.4).
package resolve

import (
	"strings"

	"streamctl/internal/orcherrors"
	"streamctl/internal/vhost"
)

// Separator is the externally-visible separator in a canonical application
// name. It is part of the external contract and must never change.
const Separator = "#"

// ApplicationName returns the canonical "<vhost>#<app>" form.
func ApplicationName(vhostName, appName string) string {
	return vhostName + Separator + appName
}

// ParseVHostAppName splits a canonical name on the first '#'. Malformed
// input (no separator) is an error.
func ParseVHostAppName(canonical string) (vhostName, appName string, err error) {
	idx := strings.Index(canonical, Separator)
	if idx < 0 {
		return "", "", orcherrors.NewMalformedNameError(canonical)
	}
	return canonical[:idx], canonical[idx+1:], nil
}

// VHostLister is the minimal view of the live configuration tree the
// resolver needs: an ordered list of VirtualHosts, scanned in
// configuration order (§4.4).
type VHostLister interface {
	OrderedVirtualHosts() []*vhost.VirtualHost
}

// VHostNameFromDomain scans VirtualHosts in configuration order and, within
// each, scans domain patterns in declaration order, returning the name of
// the first VirtualHost with a matching domain. Returns "" if none match.
func VHostNameFromDomain(lister VHostLister, domain string) string {
	for _, vh := range lister.OrderedVirtualHosts() {
		for _, d := range vh.Domains {
			if d.Matches(domain) {
				return vh.Name
			}
		}
	}
	return ""
}

// ApplicationNameFromDomain resolves a domain to its vhost and returns the
// canonical "<vhost>#<app>" form, or a NameUnresolvedError if no VirtualHost
// matches the domain.
func ApplicationNameFromDomain(lister VHostLister, domain, appName string) (string, error) {
	vhostName := VHostNameFromDomain(lister, domain)
	if vhostName == "" {
		return "", orcherrors.NewNameUnresolvedError(domain)
	}
	return ApplicationName(vhostName, appName), nil
}

// MatchedOrigin is the result of a location match: the winning Origin and
// the index used to break ties by declaration order.
type MatchedOrigin struct {
	Origin *vhost.Origin
	Index  int
}

// MatchLocation implements the longest-prefix-wins, declaration-order-tiebreak
// rule for selecting which Origin owns a requested path (§4.4). path should
// be the URL path derived from the stream name (e.g. "/live/stream1").
func MatchLocation(origins []*vhost.Origin, path string) (MatchedOrigin, bool) {
	best := MatchedOrigin{}
	found := false

	for i, o := range origins {
		if !isPathPrefix(o.Location, path) {
			continue
		}
		if !found || len(o.Location) > len(best.Origin.Location) {
			best = MatchedOrigin{Origin: o, Index: i}
			found = true
		}
	}
	return best, found
}

// isPathPrefix reports whether prefix is a path-segment prefix of path:
// prefix must match path up to a '/' boundary or exact equality, so "/live"
// matches "/live/stream1" but not "/livestream/x".
func isPathPrefix(prefix, path string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return strings.HasPrefix(path, "/")
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// StreamPath builds the URL path used for location matching from an
// application name and stream name, e.g. ("live", "stream1") -> "/live/stream1".
func StreamPath(appName, streamName string) string {
	return "/" + strings.Trim(appName, "/") + "/" + strings.TrimPrefix(streamName, "/")
}
