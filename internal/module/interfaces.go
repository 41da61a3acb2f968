// Package module defines the interfaces the Orchestrator uses to talk to
// pluggable provider/router/transcoder/publisher modules, and the registry
// that tracks which modules are currently live.
package module

import "context"

// Kind identifies which role a registered module plays.
type Kind string

const (
	KindProvider    Kind = "Provider"
	KindMediaRouter Kind = "MediaRouter"
	KindTranscoder  Kind = "Transcoder"
	KindPublisher   Kind = "Publisher"
	KindUnknown     Kind = "Unknown"
)

// ParseKind maps a lower_snake_case kind name (as used on the control-plane
// wire format) to a Kind constant.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "provider":
		return KindProvider, true
	case "media_router":
		return KindMediaRouter, true
	case "transcoder":
		return KindTranscoder, true
	case "publisher":
		return KindPublisher, true
	default:
		return KindUnknown, false
	}
}

// ProviderType enumerates the ingest protocols a Provider module can serve.
type ProviderType string

const (
	ProviderRTMP      ProviderType = "RTMP"
	ProviderRTSPPull  ProviderType = "RTSPPull"
	ProviderOVT       ProviderType = "OVT"
	ProviderMPEGTS    ProviderType = "MPEGTS"
	ProviderFile      ProviderType = "File"
	ProviderScheduled ProviderType = "Scheduled"
)

// ApplicationInfo is the handle passed to modules for an Application.
// It carries just enough identity for a module to address the application;
// the full configuration lives in vhost.Application.
type ApplicationInfo struct {
	VHostName string
	AppName   string
	AppID     uint32
}

// CanonicalName returns the "<vhost>#<app>" identity string for this application.
func (a ApplicationInfo) CanonicalName() string {
	return a.VHostName + "#" + a.AppName
}

// StreamInfo is the handle a MediaRouter passes back to the Orchestrator
// when a stream is created or destroyed.
type StreamInfo struct {
	StreamID   uint32
	StreamName string
	FullName   string
}

// Module is the interface every registered module kind must implement.
type Module interface {
	Kind() Kind
	OnCreateApplication(ctx context.Context, app ApplicationInfo) bool
	OnDeleteApplication(ctx context.Context, app ApplicationInfo) bool
}

// Provider is a Module that can also pull a stream from an upstream URL.
type Provider interface {
	Module
	ProviderType() ProviderType
	PullStream(ctx context.Context, app ApplicationInfo, streamName, url string, offset int64) bool
}

// StreamObserver receives stream lifecycle callbacks from a MediaRouter.
// Frame callbacks are intentionally not part of this interface: the
// Orchestrator is a control-plane component and never touches media frames.
type StreamObserver interface {
	OnCreateStream(ctx context.Context, app ApplicationInfo, stream StreamInfo)
	OnDeleteStream(ctx context.Context, app ApplicationInfo, stream StreamInfo)
}

// MediaRouter is a Module that additionally accepts observer registrations.
type MediaRouter interface {
	Module
	AddObserver(appName string, observer StreamObserver)
	RemoveObserver(appName string)
}
