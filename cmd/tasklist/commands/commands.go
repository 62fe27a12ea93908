package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tasklist/internal/config"
	"github.com/slok/tasklist/internal/conventions"
	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/storage"
	"github.com/slok/tasklist/internal/storage/file"
	"github.com/slok/tasklist/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	ConfigPath string
	Storage    string
	TasksFile  string
	DBPath     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultConfigPath := conventions.ConfigPath(config.DefaultDataDir())
	app.Flag("config", fmt.Sprintf("Path to the TOML config file (default: %s).", defaultConfigPath)).Envar("TASKLIST_CONFIG").StringVar(&c.ConfigPath)
	app.Flag("storage", "Storage backend (file, sqlite).").Envar("TASKLIST_STORAGE").EnumVar(&c.Storage, config.StorageFile, config.StorageSQLite)
	app.Flag("tasks-file", "Path to the JSON tasks file (file storage).").Envar("TASKLIST_TASKS_FILE").StringVar(&c.TasksFile)
	app.Flag("db-path", "Path to the SQLite database file (sqlite storage).").Envar("TASKLIST_DB_PATH").StringVar(&c.DBPath)

	return c
}

// Config resolves the configuration from the defaults, the config file and
// the flags. The default config file is optional, an explicit one is not.
func (c RootCommand) Config(explicit config.Config) (config.Config, error) {
	path, optional := c.ConfigPath, false
	if path == "" {
		path, optional = conventions.ConfigPath(config.DefaultDataDir()), true
	}

	explicit.Storage = c.Storage
	explicit.TasksFile = c.TasksFile
	explicit.DBPath = c.DBPath

	cfg, err := config.Resolve(path, optional, explicit)
	if err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newRepository returns the configured durable repository and a function to
// release it.
func newRepository(ctx context.Context, cfg config.Config, logger log.Logger) (storage.Repository, func() error, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.DBPath,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create sqlite repository: %w", err)
		}
		return repo, repo.Close, nil
	default:
		repo, err := file.NewRepository(file.RepositoryConfig{
			Path:   cfg.TasksFile,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create file repository: %w", err)
		}
		return repo, func() error { return nil }, nil
	}
}

// loadStorage resolves the configuration and opens the configured repository.
func (c RootCommand) loadStorage(ctx context.Context) (storage.Repository, func() error, error) {
	cfg, err := c.Config(config.Config{})
	if err != nil {
		return nil, nil, err
	}

	return newRepository(ctx, cfg, c.Logger)
}
