package backend

import (
	"bytes"
	"errors"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dweymouth/mprisbar/backend/mpris"
	"github.com/dweymouth/mprisbar/backend/mpris/mpristest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, p *mpristest.Player, opts StartupOptions) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts.Out = out
	configPath := filepath.Join(t.TempDir(), "config.toml")
	a := newApp(slog.New(slog.DiscardHandler), "mprisbar", opts, configPath, p.Factory)
	a.readConfig()
	a.Config.Module.Player = "fake"
	a.Config.Module.FormatOnline = "<label-song> <icon-next>"
	a.Config.Module.Icons.Next = "N"
	a.module = a.newModule()
	t.Cleanup(a.module.Close)
	return a, out
}

func TestAppSeedsDefaultConfig(t *testing.T) {
	a, _ := newTestApp(t, mpristest.NewPlayer(), StartupOptions{})
	_, err := os.Stat(a.configPath)
	require.NoError(t, err, "missing config file is written with defaults")

	read, err := ReadConfigFile(a.configPath, "mprisbar")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig("mprisbar"), read)
}

func TestAppBacksUpMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[Module\n"), 0644))

	a := newApp(slog.New(slog.DiscardHandler), "mprisbar", StartupOptions{}, configPath, mpristest.NewPlayer().Factory)
	a.readConfig()
	assert.Equal(t, DefaultConfig("mprisbar"), a.Config)

	backup, err := os.ReadFile(filepath.Join(dir, "config.toml.bak"))
	require.NoError(t, err)
	assert.Equal(t, "[Module\n", string(backup))
}

func TestAppOverrides(t *testing.T) {
	a := newApp(slog.New(slog.DiscardHandler), "mprisbar", StartupOptions{
		Player:   "vlc",
		Interval: 3,
		Instance: "left",
	}, filepath.Join(t.TempDir(), "config.toml"), mpristest.NewPlayer().Factory)
	a.readConfig()

	assert.Equal(t, "vlc", a.Config.Module.Player)
	assert.Equal(t, 3.0, a.Config.Module.Interval)
	assert.Equal(t, "mprisbar -instance left -command ", a.Config.Application.CommandPrefix)
}

func TestAppEmitsOnlyChangedLines(t *testing.T) {
	p := mpristest.NewPlayer()
	p.SetSong("Song A", "Album", "Artist", 200*time.Second)
	p.SetStatus(mpris.Playing, mpris.LoopNone, false)
	a, out := newTestApp(t, p, StartupOptions{})

	a.refresh()
	assert.Equal(t, "Artist - Song A %{A1:mprisbar -command mprisnext:}N%{A}\n", out.String())

	a.emit()
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")), "unchanged line is not repeated")

	p.SetSong("Song B", "Album", "Artist", 200*time.Second)
	require.True(t, a.module.HasEvent())
	require.True(t, a.module.Update())
	a.emit()
	assert.Contains(t, out.String(), "\nArtist - Song B ")
}

func TestAppPlainText(t *testing.T) {
	p := mpristest.NewPlayer()
	p.SetSong("Song A", "Album", "Artist", 200*time.Second)
	p.SetStatus(mpris.Playing, mpris.LoopNone, false)
	a, out := newTestApp(t, p, StartupOptions{PlainText: true})

	a.refresh()
	assert.Equal(t, "Artist - Song A N\n", out.String())
}

func TestAppOfflineOutput(t *testing.T) {
	p := mpristest.NewPlayer()
	p.Down = true
	a, out := newTestApp(t, p, StartupOptions{})

	a.refresh()
	assert.Equal(t, "no player\n", out.String())
}

func TestAppCommand(t *testing.T) {
	p := mpristest.NewPlayer()
	p.SetStatus(mpris.Playing, mpris.LoopNone, false)
	a, _ := newTestApp(t, p, StartupOptions{})

	assert.Error(t, a.Command("mprisvolume"))
	require.NoError(t, a.Command("mprisnext"))
	require.NoError(t, a.Command("mprisseek-5"))
	assert.Empty(t, p.Calls, "commands run on the polling loop")

	a.handlePending()
	assert.Equal(t, []string{"Next", "Seek:-5000000"}, p.Calls)
}

func TestAppCommandQueueFull(t *testing.T) {
	a, _ := newTestApp(t, mpristest.NewPlayer(), StartupOptions{})
	for i := 0; i < commandQueueSize; i++ {
		require.NoError(t, a.Command("mprisplay"))
	}
	assert.Error(t, a.Command("mprisplay"))
}

func TestAppReload(t *testing.T) {
	p := mpristest.NewPlayer()
	p.SetSong("Song A", "Album", "Artist", 200*time.Second)
	p.SetStatus(mpris.Playing, mpris.LoopNone, false)
	a, out := newTestApp(t, p, StartupOptions{Player: "fake"})
	a.refresh()

	cfg := DefaultConfig("mprisbar")
	cfg.Module.FormatOnline = "<label-song>"
	cfg.Module.LabelSong = "%title%"
	require.NoError(t, cfg.WriteConfigFile(a.configPath))

	a.reload <- struct{}{}
	a.handlePending()
	t.Cleanup(a.module.Close)
	assert.Contains(t, out.String(), "\nSong A\n")
}

// busStub stands in for the session bus: only running players answer.
type busStub struct {
	running map[string]*mpristest.Player
	listed  int
}

func (b *busStub) Players() ([]string, error) {
	b.listed++
	return slices.Sorted(maps.Keys(b.running)), nil
}

func (b *busStub) Factory(player string, kind mpris.Kind) (mpris.Object, error) {
	p, ok := b.running[player]
	if !ok {
		return nil, errors.New("org.freedesktop.DBus.Error.ServiceUnknown")
	}
	return p.Factory(player, kind)
}

func playingSong(title string) *mpristest.Player {
	p := mpristest.NewPlayer()
	p.SetSong(title, "Album", "Artist", 200*time.Second)
	p.SetStatus(mpris.Playing, mpris.LoopNone, false)
	return p
}

func newDiscoveryApp(t *testing.T, bus *busStub, player string) (*App, *bytes.Buffer, *time.Time) {
	t.Helper()
	out := &bytes.Buffer{}
	a := newApp(slog.New(slog.DiscardHandler), "mprisbar", StartupOptions{Out: out},
		filepath.Join(t.TempDir(), "config.toml"), bus.Factory)
	a.players = bus.Players
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return clock }
	a.readConfig()
	a.Config.Module.Player = player
	a.Config.Module.FormatOnline = "<label-song>"
	a.module = a.newModule()
	t.Cleanup(func() { a.module.Close() })
	return a, out, &clock
}

func TestAppDiscoversPlayerStartedLater(t *testing.T) {
	bus := &busStub{running: map[string]*mpristest.Player{}}
	a, out, clock := newDiscoveryApp(t, bus, "")

	a.refresh()
	assert.Equal(t, "no player\n", out.String())

	bus.running["demo"] = playingSong("Song A")
	a.discoverPlayer()
	assert.Equal(t, "no player\n", out.String(), "bus is not searched on every tick")

	*clock = clock.Add(discoverInterval)
	a.discoverPlayer()
	assert.Equal(t, "no player\nArtist - Song A\n", out.String())
	assert.Equal(t, "demo", a.autoPlayer)

	// a connected player is kept
	listed := bus.listed
	*clock = clock.Add(discoverInterval)
	a.discoverPlayer()
	assert.Equal(t, listed, bus.listed)
}

func TestAppDiscoveryFollowsReplacementPlayer(t *testing.T) {
	demo := playingSong("Song A")
	bus := &busStub{running: map[string]*mpristest.Player{"demo": demo}}
	a, out, clock := newDiscoveryApp(t, bus, "")
	require.Equal(t, "demo", a.autoPlayer)
	a.refresh()

	// demo exits, vlc starts
	demo.Down = true
	delete(bus.running, "demo")
	bus.running["vlc"] = playingSong("Song B")

	*clock = clock.Add(discoverInterval)
	a.discoverPlayer()
	assert.Equal(t, "vlc", a.autoPlayer)
	assert.Equal(t, "Artist - Song A\nArtist - Song B\n", out.String())
}

func TestAppConfiguredPlayerNotReplaced(t *testing.T) {
	bus := &busStub{running: map[string]*mpristest.Player{"demo": playingSong("Song A")}}
	a, out, clock := newDiscoveryApp(t, bus, "vlc")

	a.refresh()
	*clock = clock.Add(discoverInterval)
	a.discoverPlayer()
	assert.Zero(t, bus.listed)
	assert.Equal(t, "no player\n", out.String())
}
