package mpris

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	metadataTitle  = "xesam:title"
	metadataAlbum  = "xesam:album"
	metadataArtist = "xesam:artist"
	metadataLength = "mpris:length"
)

// Connection exposes typed MPRIS operations for one player.
// Every operation degrades to a no-op or zero value when the player is
// unreachable; protocol errors are logged, never returned.
type Connection struct {
	log     *slog.Logger
	proxies *ProxyManager
}

func NewConnection(log *slog.Logger, player string, factory ObjectFactory) *Connection {
	return &Connection{
		log:     log.With("player", player),
		proxies: NewProxyManager(log, player, factory),
	}
}

// Close releases the remote handles.
func (c *Connection) Close() {
	c.proxies.Close()
}

// Connected reports whether the player answers with a non-empty Identity.
func (c *Connection) Connected() bool {
	obj := c.proxies.Acquire(Root)
	if obj == nil {
		return false
	}
	v, err := obj.GetProperty(RootInterface + ".Identity")
	if err != nil {
		return false
	}
	id, _ := v.Value().(string)
	return id != ""
}

func (c *Connection) Play()      { c.call("Play") }
func (c *Connection) Pause()     { c.call("Pause") }
func (c *Connection) PlayPause() { c.call("PlayPause") }
func (c *Connection) Stop()      { c.call("Stop") }
func (c *Connection) Previous()  { c.call("Previous") }
func (c *Connection) Next()      { c.call("Next") }

// Seek moves the playback position by delta relative to the current position.
func (c *Connection) Seek(delta time.Duration) {
	c.call("Seek", delta.Microseconds())
}

func (c *Connection) LoopStatus() LoopStatus {
	return loopStatusOf(c.proxies.Acquire(Player), c.log)
}

func (c *Connection) PlaybackStatus() PlaybackState {
	return playbackStatusOf(c.proxies.Acquire(Player), c.log)
}

func (c *Connection) Shuffle() bool {
	return shuffleOf(c.proxies.Acquire(Player), c.log)
}

// Elapsed returns the current playback position.
func (c *Connection) Elapsed() time.Duration {
	return elapsedOf(c.proxies.Acquire(Player), c.log)
}

// FormattedElapsed returns the position as M:SS, or "N/A" if the player
// handle is unavailable.
func (c *Connection) FormattedElapsed() string {
	obj := c.proxies.Acquire(Player)
	if obj == nil {
		return "N/A"
	}
	return DurationToString(elapsedOf(obj, c.log))
}

// Song returns the current track. Missing metadata fields are left empty.
func (c *Connection) Song() Song {
	v, ok := property(c.proxies.Acquire(Player), "Metadata", c.log)
	if !ok {
		return Song{}
	}
	md, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return Song{}
	}
	return parseMetadata(md)
}

// Status returns a snapshot of the transport state, or nil if the player
// handle is unavailable. All properties are read from the same handle.
func (c *Connection) Status() *Status {
	obj := c.proxies.Acquire(Player)
	if obj == nil {
		return nil
	}
	st := NewStatus()
	st.LoopStatus = loopStatusOf(obj, c.log)
	st.PlaybackStatus = playbackStatusOf(obj, c.log)
	st.Shuffle = shuffleOf(obj, c.log)
	return st
}

func (c *Connection) SetLoopStatus(l LoopStatus) {
	c.setProperty("LoopStatus", string(l))
}

func (c *Connection) SetShuffle(shuffle bool) {
	c.setProperty("Shuffle", shuffle)
}

// DurationToString formats d as minutes and zero-padded seconds.
// There is no hours component: 75 minutes is "75:00".
func DurationToString(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

func (c *Connection) call(method string, args ...interface{}) {
	obj := c.proxies.Acquire(Player)
	if obj == nil {
		return
	}
	if err := obj.Call(PlayerInterface+"."+method, 0, args...).Err; err != nil {
		c.log.Error("MPRIS call failed", "method", method, "error", err)
	}
}

func (c *Connection) setProperty(name string, value interface{}) {
	obj := c.proxies.Acquire(Player)
	if obj == nil {
		return
	}
	if err := obj.SetProperty(PlayerInterface+"."+name, dbus.MakeVariant(value)); err != nil {
		c.log.Error("Failed to set MPRIS property", "property", name, "error", err)
	}
}

func property(obj Object, name string, log *slog.Logger) (dbus.Variant, bool) {
	if obj == nil {
		return dbus.Variant{}, false
	}
	v, err := obj.GetProperty(PlayerInterface + "." + name)
	if err != nil {
		log.Debug("Failed to read MPRIS property", "property", name, "error", err)
		return dbus.Variant{}, false
	}
	return v, true
}

func loopStatusOf(obj Object, log *slog.Logger) LoopStatus {
	v, ok := property(obj, "LoopStatus", log)
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return LoopStatus(s)
}

func playbackStatusOf(obj Object, log *slog.Logger) PlaybackState {
	v, ok := property(obj, "PlaybackStatus", log)
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return PlaybackState(s)
}

func shuffleOf(obj Object, log *slog.Logger) bool {
	v, ok := property(obj, "Shuffle", log)
	if !ok {
		return false
	}
	b, _ := v.Value().(bool)
	return b
}

func elapsedOf(obj Object, log *slog.Logger) time.Duration {
	v, ok := property(obj, "Position", log)
	if !ok {
		return 0
	}
	us, _ := toInt64(v.Value())
	return time.Duration(us) * time.Microsecond
}

func parseMetadata(md map[string]dbus.Variant) Song {
	var s Song
	if v, ok := md[metadataTitle]; ok {
		s.Title, _ = v.Value().(string)
	}
	if v, ok := md[metadataAlbum]; ok {
		s.Album, _ = v.Value().(string)
	}
	if v, ok := md[metadataArtist]; ok {
		switch a := v.Value().(type) {
		case []string:
			if len(a) > 0 {
				s.Artist = a[0]
			}
		case []interface{}:
			if len(a) > 0 {
				s.Artist, _ = a[0].(string)
			}
		case string:
			s.Artist = a
		}
	}
	if v, ok := md[metadataLength]; ok {
		if us, ok := toInt64(v.Value()); ok {
			s.Length = time.Duration(us) * time.Microsecond
		}
	}
	return s
}

// toInt64 accepts any integer encoding, since players disagree on the
// signature of mpris:length and Position.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint16:
		return int64(n), true
	case byte:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
