package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tasklist/internal/utils/file"
)

func TestWriteAtomic(t *testing.T) {
	tests := map[string]struct {
		existing *string
		data     string
	}{
		"Writing a new file should create it": {
			data: "[]",
		},
		"Writing an existing file should replace its content": {
			existing: ptr("old content that is longer"),
			data:     "new",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			dir := t.TempDir()
			path := filepath.Join(dir, "nested", "tasks.json")
			if test.existing != nil {
				require.NoError(os.MkdirAll(filepath.Dir(path), 0755))
				require.NoError(os.WriteFile(path, []byte(*test.existing), 0644))
			}

			err := file.WriteAtomic(path, []byte(test.data), 0644)
			require.NoError(err)

			got, err := os.ReadFile(path)
			require.NoError(err)
			assert.Equal(test.data, string(got))

			// No temp files should be left behind.
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(err)
			assert.Len(entries, 1)
		})
	}
}

func ptr(s string) *string { return &s }
