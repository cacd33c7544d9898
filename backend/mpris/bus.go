package mpris

import (
	"fmt"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"
)

// SessionBus hands out player objects on a shared session bus connection.
// The connection is reopened lazily if it was closed, e.g. after the
// bus daemon restarted.
type SessionBus struct {
	conn *dbus.Conn
}

// Factory is an ObjectFactory for players on the session bus.
// Both kinds resolve to the same object path; the interface is selected
// by the method and property names used on it.
func (b *SessionBus) Factory(player string, _ Kind) (Object, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return conn.Object(BusNamePrefix+player, ObjectPath), nil
}

// Players lists the names of all MPRIS players currently on the bus,
// with the org.mpris.MediaPlayer2. prefix removed.
func (b *SessionBus) Players() ([]string, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	var players []string
	for _, n := range names {
		if p, ok := strings.CutPrefix(n, BusNamePrefix); ok {
			players = append(players, p)
		}
	}
	slices.Sort(players)
	return players, nil
}

func (b *SessionBus) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

func (b *SessionBus) connection() (*dbus.Conn, error) {
	if b.conn != nil && b.conn.Connected() {
		return b.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	b.conn = conn
	return conn, nil
}
