package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[Module]
Player = "spotify"
Interval = 2.5
FormatOnline = "<toggle> <label-song>"

[Module.Icons]
Play = "P"
`), 0644)
	require.NoError(t, err)

	c, err := ReadConfigFile(path, "mprisbar")
	require.NoError(t, err)
	assert.Equal(t, "spotify", c.Module.Player)
	assert.Equal(t, 2.5, c.Module.Interval)
	assert.Equal(t, "<toggle> <label-song>", c.Module.FormatOnline)
	assert.Equal(t, "P", c.Module.Icons.Play)

	// unset keys keep their defaults
	def := DefaultConfig("mprisbar")
	assert.Equal(t, def.Module.FormatOffline, c.Module.FormatOffline)
	assert.Equal(t, def.Module.Icons.Pause, c.Module.Icons.Pause)
	assert.Equal(t, "mprisbar -command ", c.Application.CommandPrefix)
}

func TestReadConfigFileInvalidInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Module]\nInterval = -1\n"), 0644))

	c, err := ReadConfigFile(path, "mprisbar")
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Module.Interval)
}

func TestReadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Module\nPlayer = "), 0644))

	_, err := ReadConfigFile(path, "mprisbar")
	assert.Error(t, err)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := DefaultConfig("mprisbar")
	c.Module.Player = "vlc"
	require.NoError(t, c.WriteConfigFile(path))

	read, err := ReadConfigFile(path, "mprisbar")
	require.NoError(t, err)
	assert.Equal(t, c, read)
}
