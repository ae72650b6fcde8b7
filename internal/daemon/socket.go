package daemon

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// SocketListener owns the daemon's unix socket. Start claims the path,
// replacing any leftover socket from a previous run, and restricts the
// endpoint to the owning user.
type SocketListener struct {
	path     string
	listener net.Listener
}

func NewSocketListener(path string) *SocketListener {
	return &SocketListener{path: path}
}

func (sl *SocketListener) Start() error {
	if err := os.MkdirAll(filepath.Dir(sl.path), 0700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	if err := os.Remove(sl.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", sl.path)
	if err != nil {
		return fmt.Errorf("listen on socket: %w", err)
	}

	if err := os.Chmod(sl.path, 0700); err != nil {
		listener.Close()
		return fmt.Errorf("restrict socket: %w", err)
	}

	sl.listener = listener
	return nil
}

func (sl *SocketListener) Accept() (net.Conn, error) {
	if sl.listener == nil {
		return nil, fmt.Errorf("socket not started")
	}
	return sl.listener.Accept()
}

func (sl *SocketListener) Close() error {
	if sl.listener == nil {
		return nil
	}
	return sl.listener.Close()
}

// SocketConnector dials the daemon socket with a bounded wait.
type SocketConnector struct {
	path    string
	timeout time.Duration
}

func NewSocketConnector(path string, timeout time.Duration) *SocketConnector {
	return &SocketConnector{path: path, timeout: timeout}
}

func (sc *SocketConnector) Connect() (net.Conn, error) {
	if sc.timeout > 0 {
		return net.DialTimeout("unix", sc.path, sc.timeout)
	}
	return net.Dial("unix", sc.path)
}
