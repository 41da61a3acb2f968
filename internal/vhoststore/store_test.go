package vhoststore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreate(t *testing.T) {
	s := New()

	vh, created := s.GetOrCreate("host1")
	require.True(t, created)
	require.NotNil(t, vh)
	assert.Equal(t, "host1", vh.Name)

	again, created := s.GetOrCreate("host1")
	assert.False(t, created)
	assert.Same(t, vh, again)
}

func TestStore_Get(t *testing.T) {
	s := New()
	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.GetOrCreate("host1")
	vh, ok := s.Get("host1")
	require.True(t, ok)
	assert.Equal(t, "host1", vh.Name)
}

func TestStore_Delete(t *testing.T) {
	s := New()
	s.GetOrCreate("host1")
	s.GetOrCreate("host2")

	s.Delete("host1")
	_, ok := s.Get("host1")
	assert.False(t, ok)
	assert.Equal(t, []string{"host2"}, s.Names())
}

func TestStore_OrderedVirtualHosts_PreservesFirstSeenOrder(t *testing.T) {
	s := New()
	s.GetOrCreate("c")
	s.GetOrCreate("a")
	s.GetOrCreate("b")

	var names []string
	for _, vh := range s.OrderedVirtualHosts() {
		names = append(names, vh.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}
