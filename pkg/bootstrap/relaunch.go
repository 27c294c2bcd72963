package bootstrap

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/autovenv/autovenv/pkg/errors"
	"github.com/autovenv/autovenv/pkg/logging"
)

// Relauncher re-executes the original invocation under the environment's
// interpreter. The relaunch is modeled as spawn + wait + exit-code
// propagation rather than in-place image replacement, for portability;
// the recursion guard is placed in the child's environment before the
// spawn.
type Relauncher struct {
	// Interpreter is the environment's interpreter executable.
	Interpreter string

	// Argv is the original invocation: the script path first, then its
	// arguments. The child receives it unchanged.
	Argv []string

	logger zerolog.Logger
}

// NewRelauncher builds a Relauncher for the given interpreter and
// original argument vector.
func NewRelauncher(interpreter string, argv []string) *Relauncher {
	return &Relauncher{
		Interpreter: interpreter,
		Argv:        argv,
		logger:      logging.GetLogger("bootstrap.relaunch"),
	}
}

// Relaunch spawns the child, waits for it, and returns the exit code the
// parent must terminate with. The child inherits stdio and the parent's
// environment plus the recursion guard. A child that failed to even start
// is an error; a child that ran and exited non-zero is not — its status
// is the return value, failure being reported by process-exit semantics.
func (r *Relauncher) Relaunch(ctx context.Context) (int, error) {
	r.logger.Debug().
		Str("interpreter", r.Interpreter).
		Strs("argv", r.Argv).
		Msg("Spawning relaunched child")

	cmd := exec.CommandContext(ctx, r.Interpreter, r.Argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), EnvGuard+"=1")

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		code := exitCode(exitErr.ProcessState)
		r.logger.Debug().Int("exitCode", code).Msg("Relaunched child exited non-zero")
		return code, nil
	}

	return 0, errors.Wrapf(err, errors.ErrRelaunch,
		"failed to relaunch under %s", r.Interpreter)
}

// exitCode maps a finished child to the parent's exit code. A child
// killed by a signal maps to 128+signal where the platform reports
// signals, and to 1 otherwise.
func exitCode(state *os.ProcessState) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
