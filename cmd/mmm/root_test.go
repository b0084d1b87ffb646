package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmm/internal/domain"
)

func TestParsePlatformFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Platform
		wantErr bool
	}{
		{"", domain.PlatformModrinth, false},
		{"modrinth", domain.PlatformModrinth, false},
		{"curseforge", domain.PlatformCurseforge, false},
		{"steam", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePlatformFlag(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataDirFlag(t *testing.T) {
	orig := dataDir
	defer func() { dataDir = orig }()

	dataDir = "/tmp/mmm-test-data"
	dir, err := resolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mmm-test-data", dir)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"profile", "search", "info", "versions", "install", "uninstall", "mods", "update", "jar", "activate", "launch", "settings"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
