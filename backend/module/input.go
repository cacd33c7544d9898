package module

import (
	"strconv"
	"strings"
	"time"

	"github.com/dweymouth/mprisbar/backend/mpris"
)

// Command identifiers accepted by Input. Seek takes a signed number of
// seconds appended to EventSeek, e.g. "mprisseek+5".
const (
	EventPlay         = "mprisplay"
	EventPause        = "mprispause"
	EventToggle       = "mpristoggle"
	EventStop         = "mprisstop"
	EventPrev         = "mprisprev"
	EventNext         = "mprisnext"
	EventRandom       = "mprisrandom"
	EventSeek         = "mprisseek"
	EventNextLoopMode = "mprisloopmode"
)

// ValidCommand reports whether Input would handle cmd.
func ValidCommand(cmd string) bool {
	switch cmd {
	case EventPlay, EventPause, EventToggle, EventStop, EventPrev, EventNext,
		EventRandom, EventNextLoopMode:
		return true
	}
	_, ok := parseSeek(cmd)
	return ok
}

// Input dispatches a command to the player. It returns false for
// unknown commands.
func (m *Module) Input(cmd string) bool {
	switch cmd {
	case EventPlay:
		m.conn.Play()
	case EventPause:
		m.conn.Pause()
	case EventToggle:
		m.conn.PlayPause()
	case EventStop:
		m.conn.Stop()
	case EventPrev:
		m.conn.Previous()
	case EventNext:
		m.conn.Next()
	case EventRandom:
		if m.status != nil {
			m.conn.SetShuffle(!m.status.Shuffle)
		}
	case EventNextLoopMode:
		var current mpris.LoopStatus
		if m.status != nil {
			current = m.status.LoopStatus
		}
		if next, ok := current.Next(); ok {
			m.conn.SetLoopStatus(next)
		}
	default:
		delta, ok := parseSeek(cmd)
		if !ok {
			return false
		}
		m.conn.Seek(delta)
	}
	return true
}

func parseSeek(cmd string) (time.Duration, bool) {
	arg, ok := strings.CutPrefix(cmd, EventSeek)
	if !ok || arg == "" {
		return 0, false
	}
	// 32 bits of seconds keeps the Duration from overflowing
	secs, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
