package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/slok/tasklist/internal/conventions"
	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/storage"
	"github.com/slok/tasklist/internal/storage/file"
	"github.com/slok/tasklist/internal/storage/sqlite"
)

// StorageType identifies the durable storage backend.
type StorageType string

const (
	// StorageFile stores the task list as a JSON file.
	StorageFile StorageType = "file"
	// StorageSQLite stores the task list in a SQLite database.
	StorageSQLite StorageType = "sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. An empty Config{} will
// use ./tasks.json as the task list.
type Config struct {
	// Storage selects the storage backend.
	// Default: [StorageFile].
	Storage StorageType

	// TasksFile is the JSON task list path, used with [StorageFile].
	// Default: tasks.json.
	TasksFile string

	// DBPath is the SQLite database path, used with [StorageSQLite].
	// Default: ~/.tasklist/tasklist.db.
	DBPath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// Now returns the current time, used to classify tasks relative to today.
	// Default: time.Now.
	Now func() time.Time
}

func (c *Config) defaults() error {
	if c.Storage == "" {
		c.Storage = StorageFile
	}

	if c.TasksFile == "" {
		c.TasksFile = conventions.DefaultTasksFile
	}

	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(filepath.Join(home, conventions.DefaultDataDir))
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Client is the main SDK entry point for managing tasks programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo    storage.Repository
	logger  log.Logger
	now     func() time.Time
	closeFn func() error

	mu sync.Mutex
}

// New creates a new SDK client backed by the configured storage.
//
// The caller must call [Client.Close] when done to release the storage.
// Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		logger:  cfg.Logger,
		now:     cfg.Now,
		closeFn: func() error { return nil },
	}

	switch cfg.Storage {
	case StorageFile:
		repo, err := file.NewRepository(file.RepositoryConfig{
			Path:   cfg.TasksFile,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
	case StorageSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.DBPath,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
		c.closeFn = repo.Close
	default:
		return nil, fmt.Errorf("unsupported storage type: %s: %w", cfg.Storage, ErrNotValid)
	}

	return c, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
