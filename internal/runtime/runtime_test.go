package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamctl/internal/module"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(true, "/tmp/snapshots")
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/snapshots", cfg.SnapshotDir)
	assert.Equal(t, 5*time.Minute, cfg.ResyncInterval)
}

func TestNew_BootstrapsApplication(t *testing.T) {
	cfg := NewConfig(false, t.TempDir())
	app, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, app.Orchestrator())
	require.NotNil(t, app.ControlPlane())
}

func TestApplication_Run_StopsOnContextCancel(t *testing.T) {
	cfg := NewConfig(false, t.TempDir())
	app, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestDemoProvider_LifecycleAndPull(t *testing.T) {
	p := NewDemoProvider(module.ProviderRTMP)
	assert.Equal(t, module.KindProvider, p.Kind())
	assert.Equal(t, module.ProviderRTMP, p.ProviderType())

	info := module.ApplicationInfo{VHostName: "host1", AppName: "live", AppID: 1}
	assert.True(t, p.OnCreateApplication(context.Background(), info))
	assert.True(t, p.PullStream(context.Background(), info, "stream1", "rtmp://origin/live/stream1", 0))
	assert.True(t, p.OnDeleteApplication(context.Background(), info))
}
