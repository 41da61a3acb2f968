package snapshotcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHostFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_Load_MissingDirectoryIsEmptySnapshot(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	hosts, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestLoader_Load_LexicalOrderAndNameFallback(t *testing.T) {
	dir := t.TempDir()
	writeHostFile(t, dir, "b-host.yaml", "domains:\n  - name: b.example.com\n")
	writeHostFile(t, dir, "a-host.yaml", "name: host-a\ndomains:\n  - name: a.example.com\n")
	writeHostFile(t, dir, "ignored.txt", "not yaml")

	l := NewLoader(dir)
	hosts, err := l.Load()
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	assert.Equal(t, "host-a", hosts[0].Name, "explicit name field wins over filename")
	assert.Equal(t, "b-host", hosts[1].Name, "missing name field falls back to the filename stem")
}

func TestLoader_Load_ParsesOrigins(t *testing.T) {
	dir := t.TempDir()
	writeHostFile(t, dir, "host1.yaml", `
name: host1
origins:
  - location: /live
    pass:
      scheme: rtmp
      urls:
        - rtmp://origin/live
    application:
      name: live
`)

	l := NewLoader(dir)
	hosts, err := l.Load()
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Len(t, hosts[0].Origins, 1)
	assert.Equal(t, "rtmp", hosts[0].Origins[0].Pass.Scheme)
	assert.Equal(t, []string{"rtmp://origin/live"}, hosts[0].Origins[0].Pass.URLList)
}

func TestLoader_Load_InvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	writeHostFile(t, dir, "broken.yaml", "name: [unterminated")

	l := NewLoader(dir)
	_, err := l.Load()
	assert.Error(t, err)
}
