package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default tasklist data directory name (relative to home).
	DefaultDataDir = ".tasklist"
	// DefaultTasksFile is the default durable task file, relative to the working directory.
	DefaultTasksFile = "tasks.json"
	// DBFile is the sqlite database filename inside the data directory.
	DBFile = "tasklist.db"
	// ConfigFile is the TOML config filename inside the data directory.
	ConfigFile = "config.toml"

	// DefaultListenAddr is the default web server address.
	DefaultListenAddr = ":8080"
)

// DBPath returns the sqlite database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// ConfigPath returns the config file path inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFile)
}
