package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"streamctl/internal/orcherrors"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeNotFound, getExitCode(orcherrors.NewVHostNotFoundError("host1")))
	assert.Equal(t, ExitCodeError, getExitCode(assert.AnError))
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", rootCmd.Version)
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "streamctl", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}
