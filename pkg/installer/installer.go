// Package installer wraps the package installer (pip) of an isolated
// environment. Every method shells out through a Runner; a non-zero exit
// from the installer is fatal and propagated without retry.
package installer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/autovenv/autovenv/pkg/errors"
	"github.com/autovenv/autovenv/pkg/logging"
)

// Pip drives the pip of one environment through its interpreter.
type Pip struct {
	// Exe is the environment's interpreter executable.
	Exe string

	// IndexURL, when set, is passed to every install as --index-url.
	IndexURL string

	runner Runner
	logger zerolog.Logger
}

// Option configures a Pip.
type Option func(*Pip)

// WithRunner overrides the subprocess runner, for tests.
func WithRunner(r Runner) Option {
	return func(p *Pip) { p.runner = r }
}

// WithIndexURL sets the package index passed to install commands.
func WithIndexURL(url string) Option {
	return func(p *Pip) { p.IndexURL = url }
}

// NewPip creates a Pip bound to the given interpreter executable.
func NewPip(exe string, opts ...Option) *Pip {
	p := &Pip{
		Exe:    exe,
		logger: logging.GetLogger("installer"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = NewRunner()
	}
	return p
}

// EnsurePip bootstraps pip inside a freshly created environment.
func (p *Pip) EnsurePip(ctx context.Context) error {
	cmd := Command{Name: p.Exe, Args: []string{"-m", "ensurepip", "--upgrade", "--default-pip"}}
	if err := p.runner.Run(ctx, cmd); err != nil {
		return errors.Wrap(err, errors.ErrInstallerRun, "ensurepip failed")
	}
	return nil
}

// Install runs "pip install" with the given arguments.
func (p *Pip) Install(ctx context.Context, args ...string) error {
	full := []string{"-m", "pip", "install"}
	if p.IndexURL != "" {
		full = append(full, "--index-url", p.IndexURL)
	}
	full = append(full, args...)

	p.logger.Debug().Strs("args", args).Msg("Running pip install")
	if err := p.runner.Run(ctx, Command{Name: p.Exe, Args: full}); err != nil {
		return errors.Wrapf(err, errors.ErrInstallerRun, "pip install failed")
	}
	return nil
}

// InstallRequirements installs from a requirement-source file. The file is
// handed to pip as-is; autovenv never parses requirement sources.
func (p *Pip) InstallRequirements(ctx context.Context, file string) error {
	return p.Install(ctx, "-r", file)
}

// Download fetches a package distribution into destDir without installing.
func (p *Pip) Download(ctx context.Context, pkg, destDir string) error {
	cmd := Command{
		Name: p.Exe,
		Args: []string{"-m", "pip", "download", pkg},
		Dir:  destDir,
	}
	if err := p.runner.Run(ctx, cmd); err != nil {
		return errors.Wrapf(err, errors.ErrInstallerRun, "pip download %s failed", pkg)
	}
	return nil
}
