// Package module implements the MPRIS status bar module: it polls a
// player, decides when the bar output is stale and renders format tags.
package module

import (
	"context"
	"log/slog"
	"time"

	"github.com/dweymouth/mprisbar/backend/bar"
	"github.com/dweymouth/mprisbar/backend/mpris"
)

const (
	FormatOnline  = "format-online"
	FormatOffline = "format-offline"

	TagBarProgress  = "<bar-progress>"
	TagToggle       = "<toggle>"
	TagToggleStop   = "<toggle-stop>"
	TagLabelSong    = "<label-song>"
	TagLabelTime    = "<label-time>"
	TagIconRandom   = "<icon-random>"
	TagIconPrev     = "<icon-prev>"
	TagIconStop     = "<icon-stop>"
	TagIconPlay     = "<icon-play>"
	TagIconPause    = "<icon-pause>"
	TagIconNext     = "<icon-next>"
	TagIconSeekB    = "<icon-seekb>"
	TagIconSeekF    = "<icon-seekf>"
	TagIconLoop     = "<icon-loop-status>"
	TagLabelOffline = "<label-offline>"
)

// IdleInterval is the polling cadence of the module.
const IdleInterval = 100 * time.Millisecond

// Builder receives the rendered elements of one bar line.
type Builder interface {
	Node(text string)
	Cmd(button bar.MouseButton, cmd string, icon string)
}

// Module holds the last published Song and Status of one player.
// It is driven by a single polling goroutine and is not safe for
// concurrent use.
type Module struct {
	log  *slog.Logger
	conn *mpris.Connection
	now  func() time.Time

	song   mpris.Song
	status *mpris.Status // nil while disconnected

	lastSync time.Time
	syncTime time.Duration

	online  bar.Format
	offline bar.Format

	icons        *bar.IconSet
	labelSong    *bar.Label
	labelTime    *bar.Label
	labelOffline *bar.Label
	barProgress  *bar.ProgressBar
}

// Option configures optional Module behavior.
type Option func(*Module)

// WithClock replaces time.Now for the refresh throttle.
func WithClock(now func() time.Time) Option {
	return func(m *Module) { m.now = now }
}

// New builds the module and connects to cfg.Player through factory.
// Only the icons and labels used by the formats are instantiated.
func New(log *slog.Logger, cfg Config, factory mpris.ObjectFactory, opts ...Option) *Module {
	m := &Module{
		log:     log,
		now:     time.Now,
		online:  bar.ParseFormat(cfg.FormatOnline),
		offline: bar.ParseFormat(cfg.FormatOffline),
		icons:   bar.NewIconSet(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if cfg.Interval > 0 {
		m.syncTime = time.Duration(cfg.Interval * float64(time.Second))
	} else {
		m.syncTime = time.Second
	}

	has := m.online.Has
	ic := cfg.Icons
	if has(TagIconPlay) || has(TagToggle) || has(TagToggleStop) {
		m.icons.Add("play", ic.Play)
	}
	if has(TagIconPause) || has(TagToggle) {
		m.icons.Add("pause", ic.Pause)
	}
	if has(TagIconStop) || has(TagToggleStop) {
		m.icons.Add("stop", ic.Stop)
	}
	if has(TagIconPrev) {
		m.icons.Add("prev", ic.Prev)
	}
	if has(TagIconNext) {
		m.icons.Add("next", ic.Next)
	}
	if has(TagIconSeekB) {
		m.icons.Add("seekb", ic.SeekB)
	}
	if has(TagIconSeekF) {
		m.icons.Add("seekf", ic.SeekF)
	}
	if has(TagIconRandom) {
		m.icons.Add("random", ic.Random)
		m.icons.Add("no-random", ic.NoRandom)
	}
	if has(TagIconLoop) {
		m.icons.Add("loop-none", ic.LoopNone)
		m.icons.Add("loop-track", ic.LoopTrack)
		m.icons.Add("loop-playlist", ic.LoopPlaylist)
	}
	if has(TagLabelSong) {
		m.labelSong = bar.NewLabel(cfg.LabelSong, cfg.LabelMaxLen)
	}
	if has(TagLabelTime) {
		m.labelTime = bar.NewLabel(cfg.LabelTime, 0)
	}
	if m.offline.Has(TagLabelOffline) {
		m.labelOffline = bar.NewLabel(cfg.LabelOffline, 0)
	}
	if has(TagBarProgress) {
		pb := cfg.ProgressBar
		m.barProgress = &pb
	}

	m.lastSync = m.now()
	m.conn = mpris.NewConnection(log, cfg.Player, factory)
	return m
}

// Close releases the player connection.
func (m *Module) Close() {
	m.conn.Close()
}

func (m *Module) Connected() bool {
	return m.conn.Connected()
}

// Idle waits one polling tick. It returns ctx.Err() if ctx ends first.
func (m *Module) Idle(ctx context.Context) error {
	t := time.NewTimer(IdleInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HasEvent reports whether the published state is stale and Update
// should be called.
func (m *Module) HasEvent() bool {
	connected := m.Connected()
	switch {
	case !connected && m.status == nil:
		return false
	case !connected:
		// redraw as offline
		return true
	case m.status == nil:
		return true
	}

	if !m.song.Equal(m.conn.Song()) {
		return true
	}

	st := m.conn.Status()
	if st == nil ||
		m.status.PlaybackStatus != st.PlaybackStatus ||
		m.status.LoopStatus != st.LoopStatus ||
		m.status.Shuffle != st.Shuffle {
		return true
	}

	// elapsed time changes continuously, so it is only refreshed every syncTime
	if m.labelTime != nil || m.barProgress != nil {
		now := m.now()
		if now.Sub(m.lastSync) > m.syncTime {
			m.lastSync = now
			return true
		}
	}
	return false
}

// Update refetches the player state and publishes a new snapshot.
// It returns false if there is nothing to redraw.
func (m *Module) Update() bool {
	connected := m.Connected()
	if !connected && m.status == nil {
		return false
	} else if !connected {
		m.status = nil
		return true
	}

	elapsed := m.conn.FormattedElapsed()
	song := m.conn.Song()
	total := mpris.DurationToString(song.Length)
	status := m.conn.Status()

	m.song = song
	m.status = status

	if m.labelSong != nil {
		m.labelSong.Reset()
		m.labelSong.Replace("%artist%", orDefault(song.Artist, "untitled artist"))
		m.labelSong.Replace("%album%", orDefault(song.Album, "untitled album"))
		m.labelSong.Replace("%title%", orDefault(song.Title, "untitled track"))
	}
	if m.labelTime != nil {
		m.labelTime.Reset()
		m.labelTime.Replace("%elapsed%", elapsed)
		m.labelTime.Replace("%total%", total)
	}
	return true
}

// GetFormat returns the name of the format to render.
func (m *Module) GetFormat() string {
	if m.Connected() {
		return FormatOnline
	}
	return FormatOffline
}

// Format returns the parsed format with the given name.
func (m *Module) Format(name string) bar.Format {
	if name == FormatOnline {
		return m.online
	}
	return m.offline
}

// Song returns the published song.
func (m *Module) Song() mpris.Song {
	return m.song
}

// Status returns a copy of the published status, or nil while disconnected.
func (m *Module) Status() *mpris.Status {
	if m.status == nil {
		return nil
	}
	st := *m.status
	return &st
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
