// Package venv creates and self-provisions isolated Python environments.
//
// An environment directory that already exists is trusted as-is; creation
// happens at most once per directory. After creating one, the manager
// installs autovenv's own package into it so a relaunched process can run
// the same bootstrap logic without re-fetching the tool.
package venv

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/autovenv/autovenv/pkg/errors"
	"github.com/autovenv/autovenv/pkg/installer"
	"github.com/autovenv/autovenv/pkg/logging"
	"github.com/autovenv/autovenv/pkg/paths"
)

// DefaultPackageName is the distribution installed into every environment
// so the bootstrap survives relaunches.
const DefaultPackageName = "autovenv"

// Manager creates one environment directory and provisions it.
type Manager struct {
	// Dir is the environment directory.
	Dir string

	// BasePython is the interpreter used to create the environment.
	BasePython string

	// PackageName is the tool's own distribution name.
	PackageName string

	pip    *installer.Pip
	runner installer.Runner
	logger zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRunner overrides the subprocess runner, for tests.
func WithRunner(r installer.Runner) Option {
	return func(m *Manager) { m.runner = r }
}

// WithPip overrides the pip wrapper (e.g. to carry an index URL).
func WithPip(p *installer.Pip) Option {
	return func(m *Manager) { m.pip = p }
}

// WithBasePython overrides the interpreter used to create environments.
func WithBasePython(exe string) Option {
	return func(m *Manager) {
		if exe != "" {
			m.BasePython = exe
		}
	}
}

// WithPackageName overrides the self-installed distribution name.
func WithPackageName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.PackageName = name
		}
	}
}

// New creates a Manager for the given environment directory.
func New(dir string, opts ...Option) *Manager {
	m := &Manager{
		Dir:         dir,
		BasePython:  defaultBasePython(),
		PackageName: DefaultPackageName,
		logger:      logging.GetLogger("venv"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runner == nil {
		m.runner = installer.NewRunner()
	}
	if m.pip == nil {
		m.pip = installer.NewPip(m.Interpreter(), installer.WithRunner(m.runner))
	}
	return m
}

// Interpreter returns the environment's interpreter path.
func (m *Manager) Interpreter() string {
	return paths.Interpreter(m.Dir)
}

// Ensure creates and provisions the environment if its directory does not
// exist yet. An existing directory is trusted to be a valid environment
// and left untouched. Returns whether the environment was created.
//
// Concurrent invocations racing to create the same directory are not
// defended against: the exists check is not atomic with creation, first
// writer wins.
func (m *Manager) Ensure(ctx context.Context) (bool, error) {
	if _, err := os.Stat(m.Dir); err == nil {
		m.logger.Debug().Str("dir", m.Dir).Msg("Environment already exists")
		return false, nil
	}

	m.logger.Info().Str("dir", m.Dir).Msg("Creating environment")

	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrEnvCreate, "failed to create %s", m.Dir)
	}

	create := installer.Command{Name: m.BasePython, Args: []string{"-m", "venv", m.Dir}}
	if err := m.runner.Run(ctx, create); err != nil {
		return false, errors.Wrapf(err, errors.ErrEnvCreate, "venv creation failed for %s", m.Dir)
	}

	if err := m.pip.EnsurePip(ctx); err != nil {
		return false, err
	}

	if err := m.InstallSelf(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// InstallSelf installs the tool's own package into the environment.
// Resolution order: a local distribution artifact already present in the
// environment directory, then an installed-package marker (dist-info),
// then a fresh download followed by an install from it.
func (m *Manager) InstallSelf(ctx context.Context) error {
	if artifact := m.findArtifact(); artifact != "" {
		m.logger.Debug().Str("artifact", artifact).Msg("Installing self from local artifact")
		return m.pip.Install(ctx, artifact)
	}

	if m.hasDistInfo() {
		m.logger.Debug().Str("package", m.PackageName).Msg("Self already installed, skipping")
		return nil
	}

	if err := m.pip.Download(ctx, m.PackageName, m.Dir); err != nil {
		return err
	}

	artifact := m.findArtifact()
	if artifact == "" {
		return errors.Newf(errors.ErrSelfInstall,
			"no distribution for %q found in %s after download", m.PackageName, m.Dir)
	}
	return m.pip.Install(ctx, artifact)
}

// findArtifact returns a local distribution file for the package inside
// the environment directory, or "".
func (m *Manager) findArtifact() string {
	matches, err := filepath.Glob(filepath.Join(m.Dir, m.PackageName+"*"))
	if err != nil {
		return ""
	}
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
			return match
		}
	}
	return ""
}

// hasDistInfo reports whether an installed-package marker for the tool
// exists in the environment's site-packages.
func (m *Manager) hasDistInfo() bool {
	patterns := []string{
		filepath.Join(m.Dir, "lib", "*", "site-packages", m.PackageName+"*.dist-info"),
		filepath.Join(m.Dir, "Lib", "site-packages", m.PackageName+"*.dist-info"),
	}
	for _, pattern := range patterns {
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

func defaultBasePython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}
