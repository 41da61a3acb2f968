package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamctl/internal/module"
	"streamctl/internal/orcherrors"
	"streamctl/internal/vhost"
)

type stubProvider struct {
	pt   module.ProviderType
	urls []string
}

func (p *stubProvider) Kind() module.Kind { return module.KindProvider }
func (p *stubProvider) OnCreateApplication(ctx context.Context, app module.ApplicationInfo) bool {
	return true
}
func (p *stubProvider) OnDeleteApplication(ctx context.Context, app module.ApplicationInfo) bool {
	return true
}
func (p *stubProvider) ProviderType() module.ProviderType { return p.pt }
func (p *stubProvider) PullStream(ctx context.Context, app module.ApplicationInfo, streamName, url string, offset int64) bool {
	p.urls = append(p.urls, url)
	return true
}

func TestOrchestrator_EndToEndApplyAndPull(t *testing.T) {
	o := New(Config{})
	provider := &stubProvider{pt: module.ProviderRTMP}
	require.True(t, o.RegisterModule(provider))

	hosts := []vhost.HostConfig{
		{
			Name:    "host1",
			Domains: []vhost.DomainConfig{{Name: "*.example.com"}},
			Origins: []vhost.OriginConfig{{
				Location:    "/live",
				Pass:        vhost.PassConfig{Scheme: "rtmp", URLList: []string{"rtmp://origin/live"}},
				Application: vhost.ApplicationConfig{Name: "live"},
			}},
		},
	}
	require.True(t, o.ApplyOriginMap(context.Background(), hosts))

	assert.Equal(t, "host1", o.GetVhostNameFromDomain("stream.example.com"))

	ok := o.RequestPullStreamByLocation(context.Background(), "host1#live", "stream1", 0)
	require.True(t, ok)
	assert.Equal(t, []string{"rtmp://origin/live/stream1"}, provider.urls)
}

func TestOrchestrator_CreateApplication_VHostNotFound(t *testing.T) {
	o := New(Config{})
	_, err := o.CreateApplication(context.Background(), "missing", vhost.ApplicationConfig{Name: "live"})
	require.Error(t, err)
	assert.True(t, orcherrors.IsVHostNotFound(err))
}

func TestOrchestrator_DeleteApplication_VHostNotFound(t *testing.T) {
	o := New(Config{})
	_, err := o.DeleteApplication(context.Background(), "missing", "live")
	require.Error(t, err)
	assert.True(t, orcherrors.IsVHostNotFound(err))
}

func TestOrchestrator_DefaultMinAppID(t *testing.T) {
	o := New(Config{})
	hosts := []vhost.HostConfig{{
		Name: "host1",
		Origins: []vhost.OriginConfig{{
			Location:    "/live",
			Pass:        vhost.PassConfig{Scheme: "rtmp"},
			Application: vhost.ApplicationConfig{Name: "live"},
		}},
	}}
	require.True(t, o.ApplyOriginMap(context.Background(), hosts))

	vh, ok := o.GetVirtualHost("host1")
	require.True(t, ok)
	app, ok := vh.GetApplication("live")
	require.True(t, ok)
	assert.Equal(t, uint32(DefaultMinAppID), app.AppID)
}

func TestOrchestrator_ListVirtualHosts(t *testing.T) {
	o := New(Config{})
	hosts := []vhost.HostConfig{{Name: "host1"}, {Name: "host2"}}
	require.True(t, o.ApplyOriginMap(context.Background(), hosts))

	names := make([]string, 0, 2)
	for _, vh := range o.ListVirtualHosts() {
		names = append(names, vh.Name)
	}
	assert.Equal(t, []string{"host1", "host2"}, names)
}
