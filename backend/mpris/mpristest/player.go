// Package mpristest provides an in-memory MPRIS player for tests.
package mpristest

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dweymouth/mprisbar/backend/mpris"
	"github.com/godbus/dbus/v5"
)

var (
	ErrServiceUnknown = errors.New("org.freedesktop.DBus.Error.ServiceUnknown")
	ErrNoProperty     = errors.New("org.freedesktop.DBus.Error.UnknownProperty")
)

// Player fakes the remote side of a player. Objects handed out by Factory
// all share its state, like proxies for the same bus name would.
type Player struct {
	Identity string
	Metadata map[string]dbus.Variant
	Props    map[string]interface{}

	// Down makes every call and property access fail, as if the
	// player had exited.
	Down bool
	// FactoryErr, if set, is returned when creating a handle.
	FactoryErr error

	// Calls records the methods invoked on the player interface, with Seek
	// offsets appended as "Seek:<microseconds>".
	Calls []string
	// Created counts handles per kind.
	Created map[mpris.Kind]int
	// Closed counts released handles.
	Closed int
}

func NewPlayer() *Player {
	return &Player{
		Identity: "Fake Player",
		Metadata: map[string]dbus.Variant{},
		Props: map[string]interface{}{
			"PlaybackStatus": "Stopped",
			"LoopStatus":     "None",
			"Shuffle":        false,
			"Position":       int64(0),
		},
		Created: map[mpris.Kind]int{},
	}
}

// Factory is an mpris.ObjectFactory.
func (p *Player) Factory(_ string, kind mpris.Kind) (mpris.Object, error) {
	if p.FactoryErr != nil {
		return nil, p.FactoryErr
	}
	p.Created[kind]++
	return &object{p: p}, nil
}

func (p *Player) SetSong(title, album, artist string, length time.Duration) {
	p.Metadata = map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant(title),
		"xesam:album":  dbus.MakeVariant(album),
		"xesam:artist": dbus.MakeVariant([]string{artist}),
		"mpris:length": dbus.MakeVariant(length.Microseconds()),
	}
}

func (p *Player) SetStatus(playback mpris.PlaybackState, loop mpris.LoopStatus, shuffle bool) {
	p.Props["PlaybackStatus"] = string(playback)
	p.Props["LoopStatus"] = string(loop)
	p.Props["Shuffle"] = shuffle
}

func (p *Player) SetPosition(d time.Duration) {
	p.Props["Position"] = d.Microseconds()
}

type object struct {
	p *Player
}

func (o *object) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	if o.p.Down {
		return &dbus.Call{Err: ErrServiceUnknown}
	}
	name := strings.TrimPrefix(method, mpris.PlayerInterface+".")
	switch name {
	case "Seek":
		offset, _ := args[0].(int64)
		pos, _ := o.p.Props["Position"].(int64)
		o.p.Props["Position"] = max(pos+offset, 0)
		name = "Seek:" + strconv.FormatInt(offset, 10)
	case "Play":
		o.p.Props["PlaybackStatus"] = "Playing"
	case "PlayPause":
		if o.p.Props["PlaybackStatus"] == "Playing" {
			o.p.Props["PlaybackStatus"] = "Paused"
		} else {
			o.p.Props["PlaybackStatus"] = "Playing"
		}
	case "Pause":
		o.p.Props["PlaybackStatus"] = "Paused"
	case "Stop":
		o.p.Props["PlaybackStatus"] = "Stopped"
	}
	o.p.Calls = append(o.p.Calls, name)
	return &dbus.Call{}
}

func (o *object) GetProperty(name string) (dbus.Variant, error) {
	if o.p.Down {
		return dbus.Variant{}, ErrServiceUnknown
	}
	switch name {
	case mpris.RootInterface + ".Identity":
		return dbus.MakeVariant(o.p.Identity), nil
	case mpris.PlayerInterface + ".Metadata":
		return dbus.MakeVariant(o.p.Metadata), nil
	}
	v, ok := o.p.Props[strings.TrimPrefix(name, mpris.PlayerInterface+".")]
	if !ok {
		return dbus.Variant{}, ErrNoProperty
	}
	return dbus.MakeVariant(v), nil
}

func (o *object) SetProperty(name string, v interface{}) error {
	if o.p.Down {
		return ErrServiceUnknown
	}
	if variant, ok := v.(dbus.Variant); ok {
		v = variant.Value()
	}
	o.p.Props[strings.TrimPrefix(name, mpris.PlayerInterface+".")] = v
	return nil
}

func (o *object) Close() error {
	o.p.Closed++
	return nil
}
