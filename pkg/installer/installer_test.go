package installer_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autovenv/autovenv/pkg/errors"
	"github.com/autovenv/autovenv/pkg/installer"
	"github.com/autovenv/autovenv/pkg/testutil"
)

func TestEnsurePip(t *testing.T) {
	runner := &testutil.FakeRunner{}
	pip := installer.NewPip("/env/bin/python", installer.WithRunner(runner))

	require.NoError(t, pip.EnsurePip(context.Background()))
	assert.Equal(t, []string{
		"/env/bin/python -m ensurepip --upgrade --default-pip",
	}, runner.CommandLines())
}

func TestInstallRequirements(t *testing.T) {
	runner := &testutil.FakeRunner{}
	pip := installer.NewPip("/env/bin/python", installer.WithRunner(runner))

	require.NoError(t, pip.InstallRequirements(context.Background(), "/work/requirements.txt"))
	assert.Equal(t, []string{
		"/env/bin/python -m pip install -r /work/requirements.txt",
	}, runner.CommandLines())
}

func TestInstallWithIndexURL(t *testing.T) {
	runner := &testutil.FakeRunner{}
	pip := installer.NewPip("/env/bin/python",
		installer.WithRunner(runner),
		installer.WithIndexURL("https://pypi.example.com/simple"))

	require.NoError(t, pip.Install(context.Background(), "autovenv"))
	assert.Equal(t, []string{
		"/env/bin/python -m pip install --index-url https://pypi.example.com/simple autovenv",
	}, runner.CommandLines())
}

func TestDownloadRunsInDestDir(t *testing.T) {
	runner := &testutil.FakeRunner{}
	pip := installer.NewPip("/env/bin/python", installer.WithRunner(runner))

	require.NoError(t, pip.Download(context.Background(), "autovenv", "/env"))
	require.Len(t, runner.Commands, 1)
	assert.Equal(t, "/env", runner.Commands[0].Dir)
	assert.Equal(t, []string{"-m", "pip", "download", "autovenv"}, runner.Commands[0].Args)
}

func TestInstallFailureIsFatal(t *testing.T) {
	runner := &testutil.FakeRunner{
		FailOn: "pip install",
		Err:    fmt.Errorf("exit status 1"),
	}
	pip := installer.NewPip("/env/bin/python", installer.WithRunner(runner))

	err := pip.InstallRequirements(context.Background(), "/work/requirements.txt")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInstallerRun))
}
