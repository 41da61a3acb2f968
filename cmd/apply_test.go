package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCmd_Metadata(t *testing.T) {
	assert.Equal(t, "apply", applyCmd.Use)
	assert.NotEmpty(t, applyCmd.Short)
	assert.NotNil(t, applyCmd.RunE)
}

func TestRunApply_RequiresSnapshotDir(t *testing.T) {
	applySnapshotDir = ""
	err := runApply(applyCmd, nil)
	assert.Error(t, err)
}

func TestRunApply_EmptySnapshotDirReconcilesCleanly(t *testing.T) {
	applySnapshotDir = t.TempDir()
	defer func() { applySnapshotDir = "" }()

	var buf bytes.Buffer
	applyCmd.SetOut(&buf)

	require.NoError(t, runApply(applyCmd, nil))
	assert.Contains(t, buf.String(), "applied 0 host(s) cleanly")
}
