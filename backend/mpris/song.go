package mpris

import "time"

// Song is the now-playing track as reported by the player's Metadata property.
type Song struct {
	Title  string
	Album  string
	Artist string
	Length time.Duration
}

// Equal compares title, album and artist. Length is ignored since
// players report it inconsistently while a track is loading.
func (s Song) Equal(other Song) bool {
	return s.Title == other.Title && s.Album == other.Album && s.Artist == other.Artist
}

// LoopStatus is the MPRIS LoopStatus property.
// Values other than the three known ones are kept verbatim.
type LoopStatus string

const (
	LoopNone     LoopStatus = "None"
	LoopTrack    LoopStatus = "Track"
	LoopPlaylist LoopStatus = "Playlist"
)

// Known reports whether l is one of the values defined by MPRIS.
func (l LoopStatus) Known() bool {
	switch l {
	case LoopNone, LoopTrack, LoopPlaylist:
		return true
	}
	return false
}

// Next returns the loop mode that follows l in the None -> Track -> Playlist cycle.
// An empty status counts as None. Unknown values have no successor.
func (l LoopStatus) Next() (LoopStatus, bool) {
	switch l {
	case "", LoopNone:
		return LoopTrack, true
	case LoopTrack:
		return LoopPlaylist, true
	case LoopPlaylist:
		return LoopNone, true
	}
	return l, false
}

// PlaybackState is the MPRIS PlaybackStatus property.
// Unrecognized values are treated as not playing.
type PlaybackState string

const (
	Playing PlaybackState = "Playing"
	Paused  PlaybackState = "Paused"
	Stopped PlaybackState = "Stopped"
)

func (p PlaybackState) Known() bool {
	switch p {
	case Playing, Paused, Stopped:
		return true
	}
	return false
}

func (p PlaybackState) IsPlaying() bool { return p == Playing }

// Status is a snapshot of the player's transport state.
type Status struct {
	// Position in microseconds, -1 if not sampled.
	Position       int64
	Shuffle        bool
	LoopStatus     LoopStatus
	PlaybackStatus PlaybackState
}

// NewStatus returns a Status with an unknown position.
func NewStatus() *Status {
	return &Status{Position: -1}
}
