package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrEnvCreate, "failed to create environment")
	assert.Equal(t, ErrEnvCreate, err.Code)
	assert.Equal(t, "[ENV_CREATE] failed to create environment", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrInstallerRun, "pip exited with status %d", 2)
	assert.Equal(t, "[INSTALLER_RUN] pip exited with status 2", err.Error())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(inner, ErrHashSave, "could not persist hash record")
	assert.Equal(t, ErrHashSave, err.Code)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, inner, goerrors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrHashSave, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrHashSave, "ignored %s", "too"))
}

func TestIsMatchesOnCode(t *testing.T) {
	err := Newf(ErrSelfInstall, "no artifact for %q", "autovenv")
	assert.True(t, goerrors.Is(err, New(ErrSelfInstall, "any message")))
	assert.False(t, goerrors.Is(err, New(ErrEnvCreate, "any message")))
}

func TestIsErrorCode(t *testing.T) {
	err := Wrap(fmt.Errorf("boom"), ErrRelaunch, "relaunch failed")
	assert.True(t, IsErrorCode(err, ErrRelaunch))
	assert.False(t, IsErrorCode(err, ErrInternal))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrRelaunch))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrConfigParse, GetErrorCode(New(ErrConfigParse, "bad toml")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrScriptPath, "script not found").WithDetail("path", "/tmp/foo.py")
	assert.Equal(t, "/tmp/foo.py", err.Details["path"])
}
