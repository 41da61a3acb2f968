package vhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongest(t *testing.T) {
	assert.Equal(t, StateChanged, Strongest(StateNotChanged, StateChanged))
	assert.Equal(t, StateNew, Strongest(StateNew, StateNotChanged))
	assert.Equal(t, StateDelete, Strongest(StateChanged, StateDelete), "New/Delete outrank Changed")
	assert.Equal(t, StateNotChanged, Strongest(StateNotChanged, StateNotChanged))
}

func TestItemState_String(t *testing.T) {
	assert.Equal(t, "New", StateNew.String())
	assert.Equal(t, "Unknown", ItemState(99).String())
}

func TestDomain_MatchesGlob(t *testing.T) {
	d := NewDomain("*.example.com")
	assert.True(t, d.Matches("live.example.com"))
	assert.False(t, d.Matches("example.com"))
	assert.False(t, d.Matches("live.example.org"))
}

func TestDomain_RegexMetacharacterMatchesLiterally(t *testing.T) {
	d := NewDomain("[")
	assert.True(t, d.Matches("["), "a regex metacharacter in the pattern is matched literally")
	assert.False(t, d.Matches("anything"), "the escaped pattern matches nothing else")
}

func TestDomain_StreamLifecycle(t *testing.T) {
	d := NewDomain("example.com")
	s := &Stream{StreamID: 1, FullName: "example.com/app/stream"}

	d.AddStream(s)
	assert.Len(t, d.Streams(), 1)

	assert.True(t, d.RemoveStream(1))
	assert.False(t, d.RemoveStream(1), "removing twice reports false")
	assert.Empty(t, d.Streams())
}

func TestOrigin_SameRule(t *testing.T) {
	a := NewOrigin("/live", "rtmp", []string{"rtmp://a", "rtmp://b"}, ApplicationConfig{Name: "app"})
	b := NewOrigin("/live", "rtmp", []string{"rtmp://a", "rtmp://b"}, ApplicationConfig{Name: "app"})
	c := NewOrigin("/live", "rtmp", []string{"rtmp://a"}, ApplicationConfig{Name: "app"})
	d := NewOrigin("/live", "rtsp", []string{"rtmp://a", "rtmp://b"}, ApplicationConfig{Name: "app"})

	assert.True(t, a.SameRule(b))
	assert.False(t, a.SameRule(c), "different URL list length")
	assert.False(t, a.SameRule(d), "different scheme")
}

func TestVirtualHost_ApplicationLifecycle(t *testing.T) {
	vh := NewVirtualHost("host1")
	app := &Application{AppID: 1, Name: "live"}

	vh.PutApplication(app)
	got, ok := vh.GetApplication("live")
	require.True(t, ok)
	assert.Equal(t, app, got)
	assert.Len(t, vh.Applications(), 1)

	vh.DeleteApplication("live")
	_, ok = vh.GetApplication("live")
	assert.False(t, ok)
}
