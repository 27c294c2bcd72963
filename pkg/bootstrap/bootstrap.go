// Package bootstrap orchestrates environment creation, requirement
// application, and the recursion-safe self-relaunch.
//
// A Controller is built once per process start from an explicit Config;
// there is no module-level state. The recursion guard is read exactly once
// at Execute entry: a guarded process must not call Execute a second time
// expecting re-evaluation.
package bootstrap

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/autovenv/autovenv/pkg/config"
	"github.com/autovenv/autovenv/pkg/installer"
	"github.com/autovenv/autovenv/pkg/logging"
	"github.com/autovenv/autovenv/pkg/paths"
	"github.com/autovenv/autovenv/pkg/requirements"
	"github.com/autovenv/autovenv/pkg/venv"
)

// EnvGuard is the environment variable marking a relaunched process.
// Its presence (any value) suppresses further bootstrap work in the child
// and all descendants that inherit the environment. The core sets it for
// children and never clears it.
const EnvGuard = "AUTOVENV_SUBPROCESS"

// State is the terminal state of one bootstrap run.
type State int

const (
	// StateGuarded means the recursion guard was set: this process is a
	// relaunched child, nothing was done.
	StateGuarded State = iota

	// StateInEnv means the running interpreter already lives inside the
	// environment; requirements were applied in place, no relaunch.
	StateInEnv

	// StateUpToDate means the environment pre-existed and no source
	// changed, so no relaunch was needed.
	StateUpToDate

	// StateRelaunched means the invocation was re-run under the
	// environment's interpreter; ExitCode carries the child's status.
	StateRelaunched
)

func (s State) String() string {
	switch s {
	case StateGuarded:
		return "guarded"
	case StateInEnv:
		return "in-env"
	case StateUpToDate:
		return "up-to-date"
	case StateRelaunched:
		return "relaunched"
	}
	return "unknown"
}

// Outcome reports what a bootstrap run did.
type Outcome struct {
	State State

	// Created is true when the environment directory was created.
	Created bool

	// Changed is true when at least one requirement source's content
	// differed from its recorded fingerprint.
	Changed bool

	// ExitCode is the relaunched child's exit status, valid only for
	// StateRelaunched.
	ExitCode int
}

// RelaunchFunc re-runs argv under the given interpreter and returns the
// child's exit code. Injectable for tests.
type RelaunchFunc func(ctx context.Context, interpreter string, argv []string) (int, error)

// Config describes one bootstrap invocation. Script and Args are explicit
// parameters: autovenv never inspects the call stack to find its caller.
type Config struct {
	// Script is the path of the script to bootstrap for.
	Script string

	// Args are the script's own arguments, re-passed on relaunch.
	Args []string

	// Scope selects per-script or per-directory environments.
	Scope paths.Scope

	// EnvDir overrides the environment directory.
	EnvDir string

	// BasePython overrides the interpreter used to create environments.
	BasePython string

	// Sources overrides requirement-source discovery. nil discovers from
	// the script layout and config; an empty non-nil slice means none.
	Sources []requirements.Source

	// RuntimePrefix is the installation prefix of the interpreter
	// currently in use, compared against the environment directory to
	// detect the already-inside case. Defaults to $VIRTUAL_ENV.
	RuntimePrefix string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Runner overrides the subprocess runner, for tests.
	Runner installer.Runner

	// Relaunch overrides the relaunch step, for tests.
	Relaunch RelaunchFunc
}

// Controller runs the bootstrap state machine for one configuration.
type Controller struct {
	script    *paths.ScriptPaths
	envDir    string
	sources   []requirements.Source
	manager   *venv.Manager
	pip       *installer.Pip
	lookupEnv func(string) (string, bool)
	prefix    string
	relaunch  RelaunchFunc
	argv      []string
	logger    zerolog.Logger
}

// New resolves a Config into a Controller, loading the script-side
// .autovenv.toml overrides.
func New(cfg Config) (*Controller, error) {
	script, err := paths.NewScript(cfg.Script, cfg.Scope)
	if err != nil {
		return nil, err
	}

	fileConfig, err := config.Load(script.ConfigFile())
	if err != nil {
		return nil, err
	}

	envDir := cfg.EnvDir
	if envDir == "" && fileConfig.VenvDir != "" {
		envDir = fileConfig.VenvDir
		if !filepath.IsAbs(envDir) {
			envDir = filepath.Join(script.Dir(), envDir)
		}
	}
	if envDir == "" {
		envDir = script.EnvDir()
	}

	basePython := cfg.BasePython
	if basePython == "" {
		basePython = fileConfig.Python
	}

	runner := cfg.Runner
	if runner == nil {
		runner = installer.NewRunner()
	}

	pip := installer.NewPip(paths.Interpreter(envDir),
		installer.WithRunner(runner),
		installer.WithIndexURL(fileConfig.IndexURL))

	manager := venv.New(envDir,
		venv.WithRunner(runner),
		venv.WithPip(pip),
		venv.WithBasePython(basePython))

	sources := cfg.Sources
	if sources == nil {
		for _, file := range script.RequirementFiles() {
			sources = append(sources, requirements.NewSource(file))
		}
		for _, file := range fileConfig.ResolveRequirements(script.Dir()) {
			sources = append(sources, requirements.NewSource(file))
		}
	}

	lookupEnv := cfg.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	prefix := cfg.RuntimePrefix
	if prefix == "" {
		if value, ok := lookupEnv("VIRTUAL_ENV"); ok {
			prefix = value
		}
	}

	relaunch := cfg.Relaunch
	if relaunch == nil {
		relaunch = func(ctx context.Context, interpreter string, argv []string) (int, error) {
			return NewRelauncher(interpreter, argv).Relaunch(ctx)
		}
	}

	return &Controller{
		script:    script,
		envDir:    envDir,
		sources:   sources,
		manager:   manager,
		pip:       pip,
		lookupEnv: lookupEnv,
		prefix:    prefix,
		relaunch:  relaunch,
		argv:      append([]string{script.Script()}, cfg.Args...),
		logger:    logging.GetLogger("bootstrap"),
	}, nil
}

// EnvDir returns the environment directory the controller resolved.
func (c *Controller) EnvDir() string {
	return c.envDir
}

// Sources returns the requirement sources in apply order.
func (c *Controller) Sources() []requirements.Source {
	return c.sources
}

// Interpreter returns the environment's interpreter path.
func (c *Controller) Interpreter() string {
	return c.manager.Interpreter()
}

// Execute runs the bootstrap once.
//
// Guard set: returns immediately with zero environment or installer work.
// Already inside the environment: ensure (no-op) and apply every source in
// place, never relaunch. Otherwise: ensure, apply, and relaunch when
// anything changed or the environment was just created; the Outcome then
// carries the child's exit code for the caller to exit with.
func (c *Controller) Execute(ctx context.Context) (Outcome, error) {
	if _, guarded := c.lookupEnv(EnvGuard); guarded {
		c.logger.Debug().Msg("Recursion guard set, skipping bootstrap")
		return Outcome{State: StateGuarded}, nil
	}

	inEnv := c.inEnvironment()

	created, changed, err := c.converge(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if inEnv {
		c.logger.Debug().Str("envDir", c.envDir).Msg("Already inside environment, applied in place")
		return Outcome{State: StateInEnv, Created: created, Changed: changed}, nil
	}

	if changed || created {
		c.logger.Info().
			Str("interpreter", c.Interpreter()).
			Strs("argv", c.argv).
			Bool("created", created).
			Bool("changed", changed).
			Msg("Relaunching under environment interpreter")

		code, err := c.relaunch(ctx, c.Interpreter(), c.argv)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{State: StateRelaunched, Created: created, Changed: changed, ExitCode: code}, nil
	}

	return Outcome{State: StateUpToDate}, nil
}

// converge ensures the environment and applies every requirement source
// in order. No partial-state rollback exists: a failure on source N
// leaves the record updates of sources 1..N-1 persisted.
func (c *Controller) converge(ctx context.Context) (created, changed bool, err error) {
	created, err = c.manager.Ensure(ctx)
	if err != nil {
		return false, false, err
	}

	applier, err := requirements.NewApplier(c.pip, filepath.Join(c.envDir, paths.HashFileName))
	if err != nil {
		return false, false, err
	}

	for _, src := range c.sources {
		srcChanged, err := applier.Apply(ctx, src)
		if err != nil {
			return false, false, err
		}
		changed = changed || srcChanged
	}
	return created, changed, nil
}

// Sync ensures the environment and applies every source in place,
// without ever relaunching. The maintenance CLI uses it; the guard is
// not consulted because no recursion is possible.
func (c *Controller) Sync(ctx context.Context) (Outcome, error) {
	created, changed, err := c.converge(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{State: StateInEnv, Created: created, Changed: changed}, nil
}

// SourceStatus describes one requirement source for inspection.
type SourceStatus struct {
	Name     string
	Path     string
	Exists   bool
	UpToDate bool
}

// Status reports the environment's current state without running any
// installer.
func (c *Controller) Status() (envExists bool, sources []SourceStatus, err error) {
	if _, statErr := os.Stat(c.envDir); statErr == nil {
		envExists = true
	}

	applier, err := requirements.NewApplier(c.pip, filepath.Join(c.envDir, paths.HashFileName))
	if err != nil {
		return false, nil, err
	}

	for _, src := range c.sources {
		_, statErr := os.Stat(src.Path)
		sources = append(sources, SourceStatus{
			Name:     src.Name,
			Path:     src.Path,
			Exists:   statErr == nil,
			UpToDate: applier.UpToDate(src),
		})
	}
	return envExists, sources, nil
}

// inEnvironment reports whether the interpreter currently in use lives
// inside the configured environment directory.
func (c *Controller) inEnvironment() bool {
	if c.prefix == "" {
		return false
	}
	prefix, err := filepath.Abs(c.prefix)
	if err != nil {
		return false
	}
	envDir, err := filepath.Abs(c.envDir)
	if err != nil {
		return false
	}
	return filepath.Clean(prefix) == filepath.Clean(envDir)
}

// exit is swapped out by tests of Run.
var exit = os.Exit

// Run is the library entry point: it executes the bootstrap for cfg and,
// when a relaunch happened, terminates the current process with the
// child's exit code. On a normal return the caller continues in-process,
// its own exit path applying.
func Run(cfg Config) error {
	controller, err := New(cfg)
	if err != nil {
		return err
	}

	outcome, err := controller.Execute(context.Background())
	if err != nil {
		return err
	}

	if outcome.State == StateRelaunched {
		exit(outcome.ExitCode)
	}
	return nil
}
