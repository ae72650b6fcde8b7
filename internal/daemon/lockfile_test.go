package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLockFileAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.lock")
	lock := NewLockFile(path)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !lock.IsLocked() {
		t.Error("lock should report held")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if lock.IsLocked() {
		t.Error("lock should report released")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("release should remove the lock file")
	}
}

func TestLockFileSecondAcquireFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.lock")

	first := NewLockFile(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()

	second := NewLockFile(path)
	if err := second.Acquire(); err == nil {
		second.Release()
		t.Error("second acquire on a held lock should fail")
	}
}

func TestLockFileAbandonKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.lock")
	lock := NewLockFile(path)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Abandon(); err != nil {
		t.Fatalf("Abandon: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Error("abandon must leave the lock file in place")
	}
}

func TestLockFileReleaseWithoutAcquire(t *testing.T) {
	lock := NewLockFile(filepath.Join(t.TempDir(), "daemon.lock"))
	if err := lock.Release(); err != nil {
		t.Errorf("Release on unheld lock: %v", err)
	}
}

func TestPIDFileWriteRead(t *testing.T) {
	pidFile := NewPIDFile(filepath.Join(t.TempDir(), "daemon.pid"))

	if err := pidFile.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}

	pid, err := pidFile.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	if !pidFile.IsProcessAlive() {
		t.Error("own process must be alive")
	}

	if err := pidFile.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestPIDFileReadMissing(t *testing.T) {
	pidFile := NewPIDFile(filepath.Join(t.TempDir(), "daemon.pid"))

	pid, err := pidFile.Read()
	if err != nil || pid != 0 {
		t.Errorf("Read = %d, %v", pid, err)
	}
	if pidFile.IsProcessAlive() {
		t.Error("missing pid file cannot be alive")
	}
}

func TestPIDFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	if err := os.WriteFile(path, []byte("not a pid"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPIDFile(path).Read(); err == nil {
		t.Error("expected error for garbage pid file")
	}
}

func TestPIDFileWriteReplacesStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	if err := os.WriteFile(path, []byte("99999"), 0600); err != nil {
		t.Fatal(err)
	}

	pidFile := NewPIDFile(path)
	if err := pidFile.Write(); err != nil {
		t.Fatalf("Write over stale file: %v", err)
	}

	pid, _ := pidFile.Read()
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
}
