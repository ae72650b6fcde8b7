package daemon

import (
	"net"
	"path/filepath"
	"time"
)

// LifecycleManager coordinates single-instance startup: the flock guards the
// race, the pidfile records the winner, the socket probe detects stale state.
type LifecycleManager struct {
	lockFile   *LockFile
	pidFile    *PIDFile
	socketPath string
}

func NewLifecycleManager(baseDir, socketPath string) *LifecycleManager {
	return &LifecycleManager{
		lockFile:   NewLockFile(filepath.Join(baseDir, "daemon.lock")),
		pidFile:    NewPIDFile(filepath.Join(baseDir, "daemon.pid")),
		socketPath: socketPath,
	}
}

func (lm *LifecycleManager) AcquireInstanceLock() error {
	return lm.lockFile.Acquire()
}

func (lm *LifecycleManager) IsSocketResponsive() bool {
	conn, err := net.DialTimeout("unix", lm.socketPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// IsDaemonRunning reports whether a live instance appears to exist already.
func (lm *LifecycleManager) IsDaemonRunning() bool {
	if lm.pidFile.IsProcessAlive() && lm.IsSocketResponsive() {
		return true
	}
	return false
}

func (lm *LifecycleManager) RegisterRunningDaemon() error {
	return lm.pidFile.Write()
}

func (lm *LifecycleManager) Cleanup() {
	lm.pidFile.Remove()
	lm.lockFile.Release()
}

func (lm *LifecycleManager) LockFile() *LockFile {
	return lm.lockFile
}

func (lm *LifecycleManager) PIDFile() *PIDFile {
	return lm.pidFile
}
