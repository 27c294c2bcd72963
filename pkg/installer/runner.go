package installer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/autovenv/autovenv/pkg/logging"
)

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// Runner executes subprocesses. The interface exists so tests can record
// invocations instead of spawning real installers.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// execRunner runs commands with os/exec, streaming their output to the
// user and mirroring it into the debug log.
type execRunner struct {
	logger zerolog.Logger
}

// NewRunner returns the Runner used outside of tests.
func NewRunner() Runner {
	return &execRunner{logger: logging.GetLogger("installer.runner")}
}

func (r *execRunner) Run(ctx context.Context, command Command) error {
	r.logger.Info().
		Str("command", command.Name).
		Strs("args", command.Args).
		Str("workingDir", command.Dir).
		Msg("Executing command")

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	if command.Dir != "" {
		if _, err := os.Stat(command.Dir); os.IsNotExist(err) {
			return fmt.Errorf("working directory does not exist: %s", command.Dir)
		}
		cmd.Dir = command.Dir
	}
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Relay installer output so users can follow progress
	if stdout.Len() > 0 {
		fmt.Print(stdout.String())
		r.logger.Debug().Str("output", stdout.String()).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		fmt.Fprint(os.Stderr, stderr.String())
		r.logger.Debug().Str("output", stderr.String()).Msg("Command stderr")
	}

	if err != nil {
		r.logger.Error().
			Err(err).
			Str("command", command.Name).
			Strs("args", command.Args).
			Msg("Command execution failed")
		return fmt.Errorf("%s failed: %w", command.Name, err)
	}

	return nil
}
