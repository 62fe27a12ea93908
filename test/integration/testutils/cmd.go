package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// RunTasklist executes a tasklist command with pre-split arguments.
func RunTasklist(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return run(cmd, env, nolog)
}

// StartTasklist starts a long running tasklist command (e.g. serve). The
// command is killed when ctx is cancelled.
func StartTasklist(ctx context.Context, env []string, binary string, args []string, nolog bool) (*exec.Cmd, *bytes.Buffer, error) {
	var errData bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = &errData
	cmd.Env = environ(env, nolog)

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	return cmd, &errData, nil
}

func run(cmd *exec.Cmd, env []string, nolog bool) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd.Stdout = &outData
	cmd.Stderr = &errData
	cmd.Env = environ(env, nolog)

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}

// environ returns os.Environ() with the custom env on top.
// In Go's exec.Cmd, when duplicate keys exist, the last one wins.
func environ(env []string, nolog bool) []string {
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "TASKLIST_NO_LOG=true")
	}
	return newEnv
}
