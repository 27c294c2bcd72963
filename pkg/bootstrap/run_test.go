package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autovenv/autovenv/pkg/installer"
	"github.com/autovenv/autovenv/pkg/testutil"
)

func TestRunGuardedReturnsWithoutExit(t *testing.T) {
	orig := exit
	defer func() { exit = orig }()
	exited := false
	exit = func(int) { exited = true }

	dir := t.TempDir()
	script := testutil.CreateFile(t, dir, "tool.py", "print('hi')\n")

	err := Run(Config{
		Script: script,
		LookupEnv: func(key string) (string, bool) {
			if key == EnvGuard {
				return "1", true
			}
			return "", false
		},
		Runner: &testutil.FakeRunner{},
	})
	require.NoError(t, err)
	assert.False(t, exited)
}

func TestRunExitsWithChildCodeAfterRelaunch(t *testing.T) {
	orig := exit
	defer func() { exit = orig }()
	gotCode := -1
	exit = func(code int) { gotCode = code }

	dir := t.TempDir()
	script := testutil.CreateFile(t, dir, "tool.py", "print('hi')\n")
	testutil.CreateFile(t, dir, "requirements.txt", "requests==2.31.0\n")
	envDir := filepath.Join(dir, ".tool.venv")

	runner := &testutil.FakeRunner{}
	runner.OnRun = func(cmd installer.Command) error {
		if strings.Contains(strings.Join(cmd.Args, " "), "pip download") {
			testutil.Touch(t, filepath.Join(envDir, "autovenv-1.0-py3-none-any.whl"))
		}
		return nil
	}

	err := Run(Config{
		Script:    script,
		LookupEnv: func(string) (string, bool) { return "", false },
		Runner:    runner,
		Relaunch: func(context.Context, string, []string) (int, error) {
			return 5, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, gotCode)
}
