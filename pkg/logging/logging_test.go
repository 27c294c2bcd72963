package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupVerbosityLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		Setup(tt.verbosity)
		assert.Equal(t, tt.want, zerolog.GlobalLevel())
	}
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("bootstrap")
	assert.NotNil(t, logger)
}

func TestLogFilePath(t *testing.T) {
	path := LogFilePath()
	assert.Equal(t, "autovenv.log", filepath.Base(path))
	assert.Contains(t, path, "autovenv")
}
