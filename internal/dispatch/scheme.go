// Package dispatch implements the Scheme Dispatcher (§4.2) and the
// Pull-Stream Dispatcher (§4.6).
package dispatch

import (
	"net/url"
	"strings"

	"streamctl/internal/module"
	"streamctl/internal/orcherrors"
)

// SchemeDispatcher maps a URL scheme to the Provider module that handles it.
type SchemeDispatcher struct {
	registry *module.Registry
}

// NewSchemeDispatcher wraps a module registry.
func NewSchemeDispatcher(registry *module.Registry) *SchemeDispatcher {
	return &SchemeDispatcher{registry: registry}
}

// ProviderForScheme normalizes scheme to lower case and returns the first
// registered Provider whose ProviderType matches.
func (d *SchemeDispatcher) ProviderForScheme(scheme string) (module.Provider, error) {
	scheme = strings.ToLower(scheme)
	for _, p := range d.registry.Providers() {
		if schemeForProviderType(p.ProviderType()) == scheme {
			return p, nil
		}
	}
	return nil, orcherrors.NewSchemeUnsupportedError(scheme)
}

// ProviderForURL parses url and delegates to ProviderForScheme.
func (d *SchemeDispatcher) ProviderForURL(rawURL string) (module.Provider, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return nil, orcherrors.NewSchemeUnsupportedError(rawURL)
	}
	return d.ProviderForScheme(parsed.Scheme)
}

// schemeForProviderType maps a ProviderType to the URL scheme it advertises.
// This mirrors the set named in §4.2; an unrecognized ProviderType matches
// no scheme.
func schemeForProviderType(pt module.ProviderType) string {
	switch pt {
	case module.ProviderRTMP:
		return "rtmp"
	case module.ProviderRTSPPull:
		return "rtsp"
	case module.ProviderOVT:
		return "ovt"
	case module.ProviderMPEGTS:
		return "mpegts"
	case module.ProviderFile:
		return "file"
	case module.ProviderScheduled:
		return "scheduled"
	default:
		return ""
	}
}
