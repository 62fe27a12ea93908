package tasklist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/tasklist/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "tasklist"
	}

	// go test changes the CWD to the test package directory, relative
	// paths would not point to the built binary.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TASKLIST_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("tasklist binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TASKLIST_INTEGRATION"
		envBinary     = "TASKLIST_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Env returns the environment that isolates a test run in dir.
func Env(dir string) []string {
	return []string{
		"TASKLIST_CONFIG=" + filepath.Join(dir, "config.toml"),
		"TASKLIST_TASKS_FILE=" + filepath.Join(dir, "tasks.json"),
		"TASKLIST_DB_PATH=" + filepath.Join(dir, "tasklist.db"),
	}
}

// Run runs a tasklist command isolated in dir.
func Run(ctx context.Context, config Config, dir string, args ...string) (stdout, stderr []byte, err error) {
	return testutils.RunTasklist(ctx, Env(dir), config.Binary, args, true)
}
