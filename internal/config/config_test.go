package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tasklist/internal/config"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestResolve(t *testing.T) {
	defaults := config.Defaults()

	tests := map[string]struct {
		file      string
		noFile    bool
		optional  bool
		explicit  config.Config
		expConfig config.Config
		expErr    bool
	}{
		"Without config file or flags should use the defaults": {
			noFile:    true,
			expConfig: defaults,
		},

		"A missing optional config file should use the defaults": {
			file:      "",
			optional:  true,
			expConfig: defaults,
		},

		"The config file should override the defaults": {
			file: `
listen = ":9090"
storage = "sqlite"
db_path = "/tmp/tasks.db"
session_ttl = "2h"
`,
			expConfig: config.Config{
				Listen:     ":9090",
				Storage:    "sqlite",
				TasksFile:  defaults.TasksFile,
				DBPath:     "/tmp/tasks.db",
				SessionTTL: 2 * time.Hour,
			},
		},

		"Explicit values should override the config file": {
			file: `
listen = ":9090"
tasks_file = "from-file.json"
`,
			explicit: config.Config{TasksFile: "from-flag.json"},
			expConfig: config.Config{
				Listen:     ":9090",
				Storage:    defaults.Storage,
				TasksFile:  "from-flag.json",
				DBPath:     defaults.DBPath,
				SessionTTL: defaults.SessionTTL,
			},
		},

		"An unknown storage should fail": {
			file:   `storage = "postgres"`,
			expErr: true,
		},

		"An unknown key should fail": {
			file:   `colour = "blue"`,
			expErr: true,
		},

		"A malformed file should fail": {
			file:   `listen = `,
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			path := ""
			switch {
			case test.noFile:
			case test.optional:
				path = filepath.Join(t.TempDir(), "missing.toml")
			default:
				path = writeConfig(t, test.file)
			}

			cfg, err := config.Resolve(path, test.optional, test.explicit)
			if test.expErr {
				assert.Error(err)
				return
			}

			require.NoError(err)
			assert.Equal(test.expConfig, cfg)
		})
	}
}

func TestLoadFileMissingRequired(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"), false)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, config.StorageFile, cfg.Storage)
	assert.Equal(t, "tasks.json", cfg.TasksFile)
	assert.Equal(t, filepath.Join(config.DefaultDataDir(), "tasklist.db"), cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.NoError(t, cfg.Validate())
}
