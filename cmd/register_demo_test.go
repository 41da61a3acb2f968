package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"streamctl/internal/module"
)

func TestRegisterDemoCmd_Metadata(t *testing.T) {
	assert.Equal(t, "register-demo", registerDemoCmd.Use)
	assert.NotEmpty(t, registerDemoCmd.Short)
	assert.NotNil(t, registerDemoCmd.RunE)
}

func TestDemoProviderTypeForScheme(t *testing.T) {
	cases := []struct {
		scheme string
		want   module.ProviderType
		ok     bool
	}{
		{"rtmp", module.ProviderRTMP, true},
		{"rtsp", module.ProviderRTSPPull, true},
		{"ovt", module.ProviderOVT, true},
		{"mpegts", module.ProviderMPEGTS, true},
		{"file", module.ProviderFile, true},
		{"scheduled", module.ProviderScheduled, true},
		{"bogus", "", false},
	}
	for _, c := range cases {
		t.Run(c.scheme, func(t *testing.T) {
			got, ok := demoProviderTypeForScheme(c.scheme)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestRunRegisterDemo_RequiresSnapshotDir(t *testing.T) {
	registerDemoSnapshotDir = ""
	err := runRegisterDemo(registerDemoCmd, nil)
	assert.Error(t, err)
}

func TestRunRegisterDemo_RejectsUnsupportedScheme(t *testing.T) {
	registerDemoSnapshotDir = t.TempDir()
	registerDemoScheme = "bogus"
	defer func() {
		registerDemoSnapshotDir = ""
		registerDemoScheme = "rtmp"
	}()

	err := runRegisterDemo(registerDemoCmd, nil)
	assert.Error(t, err)
}
