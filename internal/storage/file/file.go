package file

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	fileutil "github.com/slok/tasklist/internal/utils/file"
)

//go:embed tasks.schema.json
var tasksSchema []byte

const schemaURL = "tasks.schema.json"

// RepositoryConfig is the configuration for the JSON file repository.
type RepositoryConfig struct {
	Path   string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.File"})
	return nil
}

// Repository is a JSON file implementation of storage.Repository.
//
// Reads are permissive: a missing file or a file that is not a valid task
// list loads as an empty collection. Writes rewrite the whole file.
// There is no locking, concurrent writers race and the last one wins.
type Repository struct {
	path   string
	schema *jsonschema.Schema
	logger log.Logger
}

// NewRepository creates a new JSON file repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(tasksSchema)); err != nil {
		return nil, fmt.Errorf("could not add tasks schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("could not compile tasks schema: %w", err)
	}

	return &Repository{
		path:   cfg.Path,
		schema: schema,
		logger: cfg.Logger,
	}, nil
}

// taskJSON is the on-disk representation of a task.
type taskJSON struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// LoadTasks reads the collection from the file.
func (r *Repository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debugf("Tasks file %s missing, using empty collection", r.path)
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("could not read tasks file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	tasks, err := r.decode(data)
	if err != nil {
		r.logger.Warningf("Tasks file %s is malformed, using empty collection: %s", r.path, err)
		return []model.Task{}, nil
	}

	return tasks, nil
}

func (r *Repository) decode(data []byte) ([]model.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}

	var items []taskJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, model.Task{
			ID:          item.ID,
			Description: item.Task,
			DueDate:     item.Date,
			Completed:   item.Completed,
		})
	}

	return tasks, nil
}

// SaveTasks rewrites the file with the whole collection, pretty printed.
func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	if err := fileutil.WriteAtomic(r.path, data, 0644); err != nil {
		return fmt.Errorf("could not write tasks file: %w", err)
	}

	r.logger.Debugf("Saved %d tasks in %s", len(tasks), r.path)
	return nil
}

// Encode returns the on-disk representation of a collection.
func Encode(tasks []model.Task) ([]byte, error) {
	items := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskJSON{
			ID:        t.ID,
			Task:      t.Description,
			Date:      t.DueDate,
			Completed: t.Completed,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("could not encode tasks: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
