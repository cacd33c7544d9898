package module

import (
	"github.com/dweymouth/mprisbar/backend/bar"
	"github.com/dweymouth/mprisbar/backend/mpris"
)

// Build renders tag into b from the published snapshot. It returns false
// if the tag is unknown or hidden in the current state.
func (m *Module) Build(b Builder, tag string) bool {
	var state mpris.PlaybackState
	if m.status != nil {
		state = m.status.PlaybackStatus
	}
	isPlaying := state == mpris.Playing
	isPaused := state == mpris.Paused
	isStopped := state == mpris.Stopped

	switch {
	case tag == TagLabelSong && !isStopped && m.labelSong != nil:
		b.Node(m.labelSong.String())
	case tag == TagLabelTime && !isStopped && m.labelTime != nil:
		b.Node(m.labelTime.String())
	case tag == TagBarProgress && !isStopped && m.barProgress != nil:
		b.Node(m.barProgress.Output(m.elapsedPercent()))
	case tag == TagLabelOffline && m.labelOffline != nil:
		b.Node(m.labelOffline.String())
	case tag == TagIconRandom:
		icon := "no-random"
		if m.status != nil && m.status.Shuffle {
			icon = "random"
		}
		b.Cmd(bar.MouseLeft, EventRandom, m.icons.Get(icon))
	case tag == TagIconLoop:
		b.Cmd(bar.MouseLeft, EventNextLoopMode, m.icons.Get(m.loopIcon()))
	case tag == TagIconPrev:
		b.Cmd(bar.MouseLeft, EventPrev, m.icons.Get("prev"))
	case (tag == TagIconStop || tag == TagToggleStop) && (isPlaying || isPaused):
		b.Cmd(bar.MouseLeft, EventStop, m.icons.Get("stop"))
	case (tag == TagIconPause || tag == TagToggle) && isPlaying:
		b.Cmd(bar.MouseLeft, EventPause, m.icons.Get("pause"))
	case (tag == TagIconPlay || tag == TagToggle || tag == TagToggleStop) && !isPlaying:
		b.Cmd(bar.MouseLeft, EventPlay, m.icons.Get("play"))
	case tag == TagIconNext:
		b.Cmd(bar.MouseLeft, EventNext, m.icons.Get("next"))
	case tag == TagIconSeekB:
		b.Cmd(bar.MouseLeft, EventSeek+"-5", m.icons.Get("seekb"))
	case tag == TagIconSeekF:
		b.Cmd(bar.MouseLeft, EventSeek+"+5", m.icons.Get("seekf"))
	default:
		return false
	}
	return true
}

// Render composes the current format into b.
func (m *Module) Render(b Builder) {
	for _, it := range m.Format(m.GetFormat()).Items {
		if it.Tag == "" {
			b.Node(it.Text)
			continue
		}
		m.Build(b, it.Tag)
	}
}

// elapsedPercent samples the live position rather than the published one,
// so the bar keeps moving between throttled refreshes.
func (m *Module) elapsedPercent() int {
	if m.song.Length <= 0 {
		return 0
	}
	return int(100 * m.conn.Elapsed() / m.song.Length)
}

func (m *Module) loopIcon() string {
	if m.status == nil {
		return "loop-none"
	}
	switch m.status.LoopStatus {
	case mpris.LoopTrack:
		return "loop-track"
	case mpris.LoopPlaylist:
		return "loop-playlist"
	}
	return "loop-none"
}
