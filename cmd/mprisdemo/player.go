package main

import (
	"encoding/hex"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dweymouth/mprisbar/backend/util"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/types"
)

const (
	dbusTrackIDPrefix = "/org/mprisbar/Demo/Track/"
	noTrackObjectPath = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

	// Previous restarts the current track past this point
	restartThreshold = 3 * time.Second
)

var (
	_ types.OrgMprisMediaPlayer2Adapter                 = (*demoPlayer)(nil)
	_ types.OrgMprisMediaPlayer2PlayerAdapter           = (*demoPlayer)(nil)
	_ types.OrgMprisMediaPlayer2PlayerAdapterLoopStatus = (*demoPlayer)(nil)
)

var errNotSupported = errors.New("not supported")

type track struct {
	ID     uuid.UUID
	Title  string
	Album  string
	Artist string
	Length time.Duration
}

func (t track) objectPath() dbus.ObjectPath {
	return dbus.ObjectPath(dbusTrackIDPrefix + hex.EncodeToString(t.ID[:]))
}

func newTrack(title, album, artist string, length time.Duration) track {
	return track{ID: uuid.New(), Title: title, Album: album, Artist: artist, Length: length}
}

// demoPlayer is an in-memory playlist served over MPRIS.
type demoPlayer struct {
	identity string

	mu      sync.Mutex
	tracks  []track
	cur     int
	state   types.PlaybackStatus
	loop    types.LoopStatus
	shuffle bool
	volume  float64
	pos     util.Stopwatch

	// nil until the server is created
	evt *events.EventHandler
}

func newDemoPlayer(identity string, tracks []track) *demoPlayer {
	return &demoPlayer{
		identity: identity,
		tracks:   tracks,
		state:    types.PlaybackStatusStopped,
		loop:     types.LoopStatusNone,
		volume:   1,
	}
}

// Tick advances to the next track once the current one has played out.
func (p *demoPlayer) Tick() {
	p.mu.Lock()
	cur, ok := p.current()
	if !ok || p.state != types.PlaybackStatusPlaying || p.pos.Elapsed() < cur.Length {
		p.mu.Unlock()
		return
	}
	if p.loop == types.LoopStatusTrack {
		p.pos.Set(0)
	} else {
		p.advance(1, false)
	}
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnTitle() })
	p.emit(func(e *events.EventHandler) { e.Player.OnPlayPause() })
}

// advance moves by delta tracks. At the ends of the playlist it wraps when
// looping or when wrap is set, and stops otherwise. Must hold p.mu.
func (p *demoPlayer) advance(delta int, wrap bool) {
	if len(p.tracks) == 0 {
		return
	}
	next := p.cur + delta
	if p.shuffle && len(p.tracks) > 1 {
		for next = p.cur; next == p.cur; {
			next = rand.IntN(len(p.tracks))
		}
	}
	if next < 0 || next >= len(p.tracks) {
		if p.loop != types.LoopStatusPlaylist && !wrap {
			p.cur = 0
			p.state = types.PlaybackStatusStopped
			p.pos.Reset()
			return
		}
		next = (next + len(p.tracks)) % len(p.tracks)
	}
	p.cur = next
	p.pos.Set(0)
}

// Must hold p.mu.
func (p *demoPlayer) current() (track, bool) {
	if p.cur < 0 || p.cur >= len(p.tracks) {
		return track{}, false
	}
	return p.tracks[p.cur], true
}

// Must hold p.mu.
func (p *demoPlayer) setState(state types.PlaybackStatus) {
	p.state = state
	switch state {
	case types.PlaybackStatusPlaying:
		p.pos.Start()
	case types.PlaybackStatusPaused:
		p.pos.Stop()
	case types.PlaybackStatusStopped:
		p.pos.Reset()
	}
}

// emit sends a change signal. It must not be called with p.mu held, since
// the server reads properties back while building the signal.
func (p *demoPlayer) emit(f func(*events.EventHandler)) {
	if p.evt != nil {
		f(p.evt)
	}
}

func (p *demoPlayer) transition(state types.PlaybackStatus) error {
	p.mu.Lock()
	p.setState(state)
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnPlayPause() })
	return nil
}

// OrgMprisMediaPlayer2Adapter implementation

func (p *demoPlayer) Identity() (string, error) {
	return p.identity, nil
}

func (p *demoPlayer) CanQuit() (bool, error) {
	return false, nil
}

func (p *demoPlayer) Quit() error {
	return errNotSupported
}

func (p *demoPlayer) CanRaise() (bool, error) {
	return false, nil
}

func (p *demoPlayer) Raise() error {
	return errNotSupported
}

func (p *demoPlayer) HasTrackList() (bool, error) {
	return false, nil
}

func (p *demoPlayer) SupportedUriSchemes() ([]string, error) {
	return nil, nil
}

func (p *demoPlayer) SupportedMimeTypes() ([]string, error) {
	return nil, nil
}

// OrgMprisMediaPlayer2PlayerAdapter implementation

func (p *demoPlayer) Next() error {
	p.mu.Lock()
	p.advance(1, true)
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnTitle() })
	return nil
}

func (p *demoPlayer) Previous() error {
	p.mu.Lock()
	if p.pos.Elapsed() > restartThreshold {
		p.pos.Set(0)
	} else {
		p.advance(-1, true)
	}
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnTitle() })
	return nil
}

func (p *demoPlayer) Pause() error {
	p.mu.Lock()
	playing := p.state == types.PlaybackStatusPlaying
	p.mu.Unlock()
	if playing {
		return p.transition(types.PlaybackStatusPaused)
	}
	return nil
}

func (p *demoPlayer) PlayPause() error {
	p.mu.Lock()
	playing := p.state == types.PlaybackStatusPlaying
	p.mu.Unlock()
	if playing {
		return p.transition(types.PlaybackStatusPaused)
	}
	return p.transition(types.PlaybackStatusPlaying)
}

func (p *demoPlayer) Stop() error {
	return p.transition(types.PlaybackStatusStopped)
}

func (p *demoPlayer) Play() error {
	return p.transition(types.PlaybackStatusPlaying)
}

func (p *demoPlayer) Seek(offset types.Microseconds) error {
	// MPRIS seek command is relative to current position
	p.mu.Lock()
	cur, ok := p.current()
	if !ok || p.state == types.PlaybackStatusStopped {
		p.mu.Unlock()
		return nil
	}
	pos := p.pos.Elapsed() + time.Duration(offset)*time.Microsecond
	if pos > cur.Length {
		p.advance(1, false)
		pos = 0
	}
	p.pos.Set(pos)
	pos = p.pos.Elapsed()
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnSeek(types.Microseconds(pos.Microseconds())) })
	return nil
}

func (p *demoPlayer) SetPosition(trackId string, position types.Microseconds) error {
	p.mu.Lock()
	cur, ok := p.current()
	if !ok || string(cur.objectPath()) != trackId || position < 0 ||
		time.Duration(position)*time.Microsecond > cur.Length {
		p.mu.Unlock()
		return nil
	}
	p.pos.Set(time.Duration(position) * time.Microsecond)
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnSeek(position) })
	return nil
}

func (p *demoPlayer) OpenUri(uri string) error {
	return errNotSupported
}

func (p *demoPlayer) PlaybackStatus() (types.PlaybackStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, nil
}

func (p *demoPlayer) LoopStatus() (types.LoopStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop, nil
}

func (p *demoPlayer) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone, types.LoopStatusTrack, types.LoopStatusPlaylist:
	default:
		return errors.New("unknown loop status")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = status
	return nil
}

func (p *demoPlayer) Shuffle() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffle, nil
}

func (p *demoPlayer) SetShuffle(shuffle bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shuffle = shuffle
	return nil
}

func (p *demoPlayer) Rate() (float64, error) {
	return 1, nil
}

func (p *demoPlayer) SetRate(float64) error {
	return errNotSupported
}

func (p *demoPlayer) Metadata() (types.Metadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.current()
	if !ok || p.state == types.PlaybackStatusStopped {
		return types.Metadata{TrackId: dbus.ObjectPath(noTrackObjectPath)}, nil
	}
	return types.Metadata{
		TrackId: cur.objectPath(),
		Length:  types.Microseconds(cur.Length.Microseconds()),
		Title:   cur.Title,
		Album:   cur.Album,
		Artist:  []string{cur.Artist},
	}, nil
}

func (p *demoPlayer) Volume() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume, nil
}

func (p *demoPlayer) SetVolume(v float64) error {
	p.mu.Lock()
	p.volume = min(max(v, 0), 1)
	p.mu.Unlock()
	p.emit(func(e *events.EventHandler) { e.Player.OnVolume() })
	return nil
}

func (p *demoPlayer) Position() (int64, error) {
	return p.pos.Elapsed().Microseconds(), nil
}

func (p *demoPlayer) MinimumRate() (float64, error) {
	return 1, nil
}

func (p *demoPlayer) MaximumRate() (float64, error) {
	return 1, nil
}

func (p *demoPlayer) CanGoNext() (bool, error) {
	return true, nil
}

func (p *demoPlayer) CanGoPrevious() (bool, error) {
	return true, nil
}

func (p *demoPlayer) CanPlay() (bool, error) {
	return true, nil
}

func (p *demoPlayer) CanPause() (bool, error) {
	return true, nil
}

func (p *demoPlayer) CanSeek() (bool, error) {
	return true, nil
}

func (p *demoPlayer) CanControl() (bool, error) {
	return true, nil
}
