//go:build windows

package ipc

import (
	"net"
	"os/user"

	"github.com/Microsoft/go-winio"
)

var pipeName = `\\.\pipe\mprisbar`

func init() {
	if user, err := user.Current(); err == nil {
		pipeName += sanitizeName(user.Name)
	}
}

// SetInstanceName gives the pipe a per-instance suffix.
func SetInstanceName(name string) {
	if name != "" {
		pipeName += "-" + sanitizeName(name)
	}
}

func SocketPath() string {
	return pipeName
}

func Dial() (net.Conn, error) {
	return winio.DialPipe(pipeName, nil)
}

func Listen() (net.Listener, error) {
	return winio.ListenPipe(pipeName, nil)
}

func DestroyConn() error {
	// Windows named pipes automatically clean up
	return nil
}
