package tasklist_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inttasklist "github.com/slok/tasklist/test/integration/tasklist"
	"github.com/slok/tasklist/test/integration/testutils"
)

type listedTask struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Status    string `json:"status"`
}

func listTasks(t *testing.T, ctx context.Context, config inttasklist.Config, dir string, args ...string) []listedTask {
	t.Helper()

	stdout, stderr, err := inttasklist.Run(ctx, config, dir, append([]string{"list", "--format", "json"}, args...)...)
	require.NoError(t, err, "stderr: %s", stderr)

	var tasks []listedTask
	require.NoError(t, json.Unmarshal(stdout, &tasks))
	return tasks
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestCLILifecycle(t *testing.T) {
	config := inttasklist.NewConfig(t)

	for _, storage := range []string{"file", "sqlite"} {
		t.Run(storage, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			dir := t.TempDir()
			require.NoError(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(fmt.Sprintf("storage = %q\n", storage)), 0o644))

			today := time.Now().Format("2006-01-02")
			_, stderr, err := inttasklist.Run(ctx, config, dir, "add", "Buy milk", "--date", today)
			require.NoError(err, "stderr: %s", stderr)
			_, stderr, err = inttasklist.Run(ctx, config, dir, "add", "Someday")
			require.NoError(err, "stderr: %s", stderr)

			tasks := listTasks(t, ctx, config, dir)
			require.Len(tasks, 2)
			assert.Equal("Buy milk", tasks[0].Task)
			assert.Equal("due-today", tasks[0].Status)

			_, stderr, err = inttasklist.Run(ctx, config, dir, "complete", tasks[0].ID)
			require.NoError(err, "stderr: %s", stderr)
			_, stderr, err = inttasklist.Run(ctx, config, dir, "rm", tasks[1].ID)
			require.NoError(err, "stderr: %s", stderr)

			tasks = listTasks(t, ctx, config, dir)
			require.Len(tasks, 1)
			assert.True(tasks[0].Completed)

			_, _, err = inttasklist.Run(ctx, config, dir, "rm", "missing")
			assert.Error(err)
		})
	}
}

func TestServeAddAndAlert(t *testing.T) {
	config := inttasklist.NewConfig(t)
	require := require.New(t)
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0o644))
	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))

	cmd, stderr, err := testutils.StartTasklist(ctx, inttasklist.Env(dir), config.Binary, []string{"serve", "--listen", addr}, true)
	require.NoError(err)
	t.Cleanup(func() {
		cancel()
		_ = cmd.Wait()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(err)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}
	base := "http://" + addr

	// Wait for the server to be ready.
	require.Eventually(func() bool {
		resp, err := client.Get(base + "/static/styles.css")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond, "server not ready: %s", stderr)

	resp, err := client.PostForm(base+"/", url.Values{"task": {"Buy milk"}, "date": {time.Now().Format("2006-01-02")}})
	require.NoError(err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	// The redirect is followed, the page shows the reminder once.
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(1, strings.Count(string(body), `class="alert"`))

	resp, err = client.Get(base + "/")
	require.NoError(err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(string(body), "Buy milk")
	assert.NotContains(string(body), `class="alert"`)

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(err)
	assert.Contains(string(data), `"task": "Buy milk"`)
}
