// Command ontoeval-daemon runs the evaluation service on a unix socket.
// It is normally spawned by ontoeval -serve but can be started by hand.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ontolab/ontoeval/internal/config"
	"github.com/ontolab/ontoeval/internal/daemon"
	"github.com/ontolab/ontoeval/internal/logger"
)

func main() {
	cfg, err := config.LoadWithOverrides()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("Failed to ensure directories: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logger.Init(logCfg)

	lifecycle := daemon.NewLifecycleManager(cfg.BaseDir(), cfg.SocketPath)

	if lifecycle.IsDaemonRunning() {
		fmt.Println("Daemon already running")
		os.Exit(0)
	}

	if err := lifecycle.AcquireInstanceLock(); err != nil {
		log.Fatalf("Failed to acquire instance lock: %v", err)
	}
	defer lifecycle.Cleanup()

	if err := lifecycle.RegisterRunningDaemon(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}

	d, err := daemon.NewDaemon(cfg)
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	if err := d.Start(); err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}
}
