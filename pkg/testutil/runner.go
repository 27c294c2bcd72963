package testutil

import (
	"context"
	"strings"

	"github.com/autovenv/autovenv/pkg/installer"
)

// FakeRunner records every command it is asked to run instead of spawning
// subprocesses. Tests can inspect Commands afterwards, fail a matching
// command, or attach a side effect (e.g. creating a file a later step
// expects to find).
type FakeRunner struct {
	// Commands holds every invocation in order.
	Commands []installer.Command

	// FailOn, when non-empty, makes any command whose joined argument
	// string contains it return Err.
	FailOn string

	// Err is returned for commands matched by FailOn.
	Err error

	// OnRun, when set, is called for every command after recording.
	OnRun func(cmd installer.Command) error
}

// Run implements installer.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd installer.Command) error {
	f.Commands = append(f.Commands, cmd)

	if f.FailOn != "" && strings.Contains(f.joined(cmd), f.FailOn) {
		return f.Err
	}
	if f.OnRun != nil {
		return f.OnRun(cmd)
	}
	return nil
}

// CommandLines renders the recorded commands one per line, for simple
// sequence assertions.
func (f *FakeRunner) CommandLines() []string {
	lines := make([]string, 0, len(f.Commands))
	for _, cmd := range f.Commands {
		lines = append(lines, f.joined(cmd))
	}
	return lines
}

func (f *FakeRunner) joined(cmd installer.Command) string {
	return strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
}
