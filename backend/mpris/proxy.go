package mpris

import (
	"io"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	BusNamePrefix = "org.mpris.MediaPlayer2."
	ObjectPath    = dbus.ObjectPath("/org/mpris/MediaPlayer2")

	RootInterface   = "org.mpris.MediaPlayer2"
	PlayerInterface = "org.mpris.MediaPlayer2.Player"
)

// RenewalThreshold is the number of accesses a handle serves before it is recreated.
const RenewalThreshold = 10

// Kind selects one of the two remote objects of a player.
type Kind int

const (
	// Root is the org.mpris.MediaPlayer2 interface.
	Root Kind = iota
	// Player is the org.mpris.MediaPlayer2.Player interface.
	Player

	numKinds
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Player:
		return "player"
	}
	return "unknown"
}

// Object is the subset of dbus.BusObject used to talk to a player.
type Object interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
	SetProperty(p string, v interface{}) error
}

var _ Object = (dbus.BusObject)(nil)

// ObjectFactory creates a handle for the named player. A returned Object
// that also implements io.Closer is closed when the handle is replaced.
type ObjectFactory func(player string, kind Kind) (Object, error)

// ProxyManager owns the root and player handles of one player and
// periodically recreates them, since a handle can go stale without
// reporting errors when the player restarts or the bus name changes owner.
//
// A ProxyManager is not safe for concurrent use. A handle returned by
// Acquire is only valid until the next call to Acquire.
type ProxyManager struct {
	log     *slog.Logger
	player  string
	factory ObjectFactory

	handles [numKinds]Object
	counts  [numKinds]int
}

func NewProxyManager(log *slog.Logger, player string, factory ObjectFactory) *ProxyManager {
	m := &ProxyManager{
		log:     log.With("player", player),
		player:  player,
		factory: factory,
	}
	for k := Kind(0); k < numKinds; k++ {
		m.handles[k] = m.create(k)
	}
	return m
}

// Acquire returns the current handle of the given kind, recreating it
// once every RenewalThreshold accesses. The result is nil if the handle
// could not be created.
func (m *ProxyManager) Acquire(kind Kind) Object {
	m.counts[kind]++
	if m.counts[kind] > RenewalThreshold {
		m.counts[kind] = 0
		m.replace(kind, m.create(kind))
	}
	return m.handles[kind]
}

// Close releases both handles.
func (m *ProxyManager) Close() {
	for k := Kind(0); k < numKinds; k++ {
		m.replace(k, nil)
	}
}

// TODO: creation is retried on every renewal even after repeated failures;
// consider backing off and logging only the first failure in a row.
func (m *ProxyManager) create(kind Kind) Object {
	obj, err := m.factory(m.player, kind)
	if err != nil {
		m.log.Error("Failed to create MPRIS proxy", "kind", kind, "error", err)
		return nil
	}
	return obj
}

func (m *ProxyManager) replace(kind Kind, obj Object) {
	old := m.handles[kind]
	m.handles[kind] = obj
	if c, ok := old.(io.Closer); ok && old != obj {
		if err := c.Close(); err != nil {
			m.log.Debug("Error releasing MPRIS proxy", "kind", kind, "error", err)
		}
	}
}
