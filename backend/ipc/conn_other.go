//go:build !windows

package ipc

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"path"
	"runtime"
)

// socketDir and socketName are initialized based on platform conventions:
//   - macOS: ~/Library/Caches/mprisbar/mprisbar.sock (or /tmp/mprisbar-{uid}.sock as fallback)
//   - Linux/Unix: $XDG_RUNTIME_DIR/mprisbar.sock (or /tmp/mprisbar-{uid}.sock as fallback)
var (
	socketDir  = "/tmp"
	socketName = "mprisbar"
)

func init() {
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			socketDir = path.Join(home, "Library", "Caches", "mprisbar")
		} else if user, err := user.Current(); err == nil {
			socketName = fmt.Sprintf("mprisbar-%s", user.Uid)
		}
	} else {
		if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
			socketDir = runtime
		} else if user, err := user.Current(); err == nil {
			socketName = fmt.Sprintf("mprisbar-%s", user.Uid)
		}
	}
}

// SetInstanceName gives the socket a per-instance suffix so several bars,
// e.g. one per player, can run side by side.
func SetInstanceName(name string) {
	if name != "" {
		socketName += "-" + sanitizeName(name)
	}
}

// SocketPath returns the path of the IPC socket.
func SocketPath() string {
	return path.Join(socketDir, socketName+".sock")
}

// Dial establishes a connection to the IPC socket.
// Returns an error if the socket doesn't exist or connection fails.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath())
}

// Listen creates a Unix domain socket listener at the configured path.
// The socket file is created automatically and should be cleaned up
// with DestroyConn() when done.
func Listen() (net.Listener, error) {
	os.MkdirAll(socketDir, 0700)
	return net.Listen("unix", SocketPath())
}

// DestroyConn removes the Unix socket file from the filesystem.
// Should be called during application shutdown.
func DestroyConn() error {
	return os.Remove(SocketPath())
}
