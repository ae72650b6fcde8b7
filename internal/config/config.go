package config

import (
	"os"
	"path/filepath"

	"github.com/ontolab/ontoeval/internal/watcher"
)

type EvalConfig struct {
	Enabled         bool     `yaml:"enabled"`
	DBPath          string   `yaml:"db_path"`
	MaxFileSize     int64    `yaml:"max_file_size"`
	MaxQueueSize    int      `yaml:"max_queue_size"`
	WorkerCount     int      `yaml:"worker_count"`
	RateLimit       int      `yaml:"rate_limit"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type Config struct {
	SocketPath     string                `yaml:"socket_path"`
	LogLevel       string                `yaml:"log_level"`
	MaxConnections int                   `yaml:"max_connections"`
	WatchRoots     []string              `yaml:"watch_roots"`
	Eval           EvalConfig            `yaml:"eval"`
	Watcher        watcher.WatcherConfig `yaml:"watcher"`
}

func baseDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".ontoeval")
}

func Load() *Config {
	dir := baseDir()

	return &Config{
		SocketPath:     filepath.Join(dir, "daemon.sock"),
		LogLevel:       "info",
		MaxConnections: 100,
		Eval: EvalConfig{
			Enabled:      true,
			DBPath:       filepath.Join(dir, "cache.db"),
			MaxFileSize:  50 * 1024 * 1024,
			MaxQueueSize: 1000,
			WorkerCount:  2,
			RateLimit:    100,
			ExcludePatterns: []string{
				"**/.git/**",
				"**/node_modules/**",
				"**/vendor/**",
				"**/target/**",
				"**/build/**",
				"**/dist/**",
			},
		},
		Watcher: watcher.DefaultWatcherConfig(),
	}
}

func (c *Config) BaseDir() string {
	return baseDir()
}

func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(baseDir(), 0700)
}
