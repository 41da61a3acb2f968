package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServeCmd_Metadata(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
	assert.NotEmpty(t, serveCmd.Short)
	assert.NotEmpty(t, serveCmd.Long)
	assert.NotNil(t, serveCmd.RunE)
}

func TestRunServe_RequiresSnapshotDir(t *testing.T) {
	serveSnapshotDir = ""
	err := runServe(serveCmd, nil)
	assert.Error(t, err)
}
