package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/tasklist/internal/conventions"
	"github.com/slok/tasklist/internal/model"
)

// Storage backend names.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config is the application configuration. Zero values mean unset.
type Config struct {
	Listen     string        `toml:"listen"`
	Storage    string        `toml:"storage"`
	TasksFile  string        `toml:"tasks_file"`
	DBPath     string        `toml:"db_path"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Listen:     conventions.DefaultListenAddr,
		Storage:    StorageFile,
		TasksFile:  conventions.DefaultTasksFile,
		DBPath:     conventions.DBPath(DefaultDataDir()),
		SessionTTL: 24 * time.Hour,
	}
}

// DefaultDataDir returns the tasklist data directory in the user home.
func DefaultDataDir() string {
	return filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
}

// LoadFile decodes a TOML config file. A missing file is not an error when
// optional is true, an empty config is returned instead.
func LoadFile(path string, optional bool) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("could not load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q in %s: %w", undecoded[0].String(), path, model.ErrNotValid)
	}

	return cfg, nil
}

// Override returns a copy of c with every set field of o applied on top.
func (c Config) Override(o Config) Config {
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.Storage != "" {
		c.Storage = o.Storage
	}
	if o.TasksFile != "" {
		c.TasksFile = o.TasksFile
	}
	if o.DBPath != "" {
		c.DBPath = o.DBPath
	}
	if o.SessionTTL != 0 {
		c.SessionTTL = o.SessionTTL
	}
	return c
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.TasksFile == "" {
			return fmt.Errorf("tasks file is required: %w", model.ErrNotValid)
		}
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db path is required: %w", model.ErrNotValid)
		}
	default:
		return fmt.Errorf("unknown storage %q: %w", c.Storage, model.ErrNotValid)
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must be positive: %w", model.ErrNotValid)
	}

	return nil
}

// Resolve merges defaults, the config file at path and the explicit values,
// in increasing precedence.
func Resolve(path string, optional bool, explicit Config) (Config, error) {
	file, err := LoadFile(path, optional)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults().Override(file).Override(explicit)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
