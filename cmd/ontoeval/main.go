// Command ontoeval evaluates ontology documents. By default it runs the
// pipeline in-process and prints a report; with -serve it becomes a thin MCP
// stdio client that spawns the daemon and proxies requests to it.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/ontolab/ontoeval/internal/config"
	"github.com/ontolab/ontoeval/internal/daemon"
	"github.com/ontolab/ontoeval/internal/logger"
	"github.com/ontolab/ontoeval/internal/report"
	"github.com/ontolab/ontoeval/internal/tools/ontology"
	"github.com/ontolab/ontoeval/pkg/version"
)

var (
	daemonPID   int
	cleanupOnce sync.Once
)

func main() {
	serve := flag.Bool("serve", false, "run as MCP stdio server backed by the daemon")
	format := flag.String("format", "markdown", "report format: markdown or json")
	compare := flag.Bool("compare", false, "compare exactly two ontologies side by side")
	output := flag.String("o", "", "write the report to a file instead of stdout")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	cfg, err := config.LoadWithOverrides()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(level)
	logger.Init(logCfg)

	if *serve {
		runServe(cfg)
		return
	}

	runEvaluate(flag.Args(), *format, *compare, *output)
}

// runEvaluate is the one-shot mode: parse, measure, print, exit.
func runEvaluate(paths []string, format string, compare bool, output string) {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ontoeval [flags] <ontology>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if compare && len(paths) != 2 {
		fmt.Fprintln(os.Stderr, "-compare requires exactly two ontologies")
		os.Exit(2)
	}

	ctx := context.Background()
	evaluator := ontology.NewEvaluator(nil, nil)

	entries := make([]report.Entry, 0, len(paths))
	for _, path := range paths {
		result, err := evaluator.Evaluate(ctx, path, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to evaluate %s: %v\n", path, err)
			os.Exit(1)
		}
		entries = append(entries, report.Entry{
			Name:     result.Name,
			Path:     result.Path,
			Snapshot: result.Metrics,
		})
	}

	var content string
	switch {
	case compare:
		content = report.Comparison(entries[0], entries[1])
	case format == "json":
		data, err := report.JSON(entries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			os.Exit(1)
		}
		content = string(data) + "\n"
	case format == "markdown":
		content = report.Markdown(entries)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", format)
		os.Exit(2)
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Print(content)
}

// runServe spawns the daemon if needed and proxies MCP stdio to its socket.
func runServe(cfg *config.Config) {
	setupCleanupHandlers()

	if !isSocketResponsive(cfg.SocketPath) {
		pid, err := startDaemon()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
			os.Exit(1)
		}
		daemonPID = pid

		if err := waitForDaemonReady(cfg.SocketPath, 10*time.Second); err != nil {
			cleanup()
			fmt.Fprintf(os.Stderr, "Daemon failed to become ready: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := daemon.Connect(ctx, cfg.SocketPath)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Failed to connect to daemon: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := daemon.ProxyStdio(ctx, client, os.Stdin, os.Stdout); err != nil {
		if ctx.Err() == nil {
			logger.Error("stdio proxy failed", "error", err)
		}
	}
}

func startDaemon() (int, error) {
	execPath, err := os.Executable()
	if err != nil {
		return 0, err
	}
	daemonPath := filepath.Join(filepath.Dir(execPath), "ontoeval-daemon")

	cmd := exec.Command(daemonPath)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}

	go cmd.Wait()

	return cmd.Process.Pid, nil
}

func isSocketResponsive(socketPath string) bool {
	conn, err := net.DialTimeout("unix", socketPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func waitForDaemonReady(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if isSocketResponsive(socketPath) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("daemon socket not ready after %v", timeout)
}

func cleanup() {
	cleanupOnce.Do(func() {
		if daemonPID > 0 {
			killDaemon(daemonPID)
		}
	})
}
