package runtime

import (
	"context"

	"streamctl/internal/module"
	"streamctl/pkg/logging"
)

// DemoProvider is a trivial in-memory module.Provider used by `streamctl
// register-demo` to show how an integrator wires a real Provider into the
// Module Registry: it logs every lifecycle callback and "pulls" by
// immediately reporting success, with no real upstream connection.
type DemoProvider struct {
	providerType module.ProviderType
}

// NewDemoProvider creates a DemoProvider advertising the given ProviderType.
func NewDemoProvider(pt module.ProviderType) *DemoProvider {
	return &DemoProvider{providerType: pt}
}

func (p *DemoProvider) Kind() module.Kind { return module.KindProvider }

func (p *DemoProvider) ProviderType() module.ProviderType { return p.providerType }

func (p *DemoProvider) OnCreateApplication(ctx context.Context, app module.ApplicationInfo) bool {
	logging.Info("DemoProvider", "application created: %s", app.CanonicalName())
	return true
}

func (p *DemoProvider) OnDeleteApplication(ctx context.Context, app module.ApplicationInfo) bool {
	logging.Info("DemoProvider", "application deleted: %s", app.CanonicalName())
	return true
}

func (p *DemoProvider) PullStream(ctx context.Context, app module.ApplicationInfo, streamName, url string, offset int64) bool {
	logging.Info("DemoProvider", "pulling %s for %s from %s (offset %d)", streamName, app.CanonicalName(), url, offset)
	return true
}
