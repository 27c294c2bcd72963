// Package paths provides centralized path handling for autovenv.
// It defines where a script's isolated environment, hash record, and
// requirement sources live on disk.
//
// IMPORTANT: These constants define autovenv's on-disk layout and are NOT
// user-configurable. They must remain consistent across installations so an
// environment created by one run is found by the next. User-configurable
// overrides belong in pkg/config instead.
package paths

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/autovenv/autovenv/pkg/errors"
)

// Layout constants
const (
	// EnvDirSuffix is the suffix of every environment directory name
	EnvDirSuffix = ".venv"

	// HashFileName is the hash record file inside the environment directory
	HashFileName = "hash.req.txt"

	// DirRequirementsName is the directory-wide requirement source
	DirRequirementsName = "requirements.txt"

	// ScriptRequirementsSuffix is the per-script requirement source suffix
	ScriptRequirementsSuffix = ".req.txt"

	// ConfigFileName is the optional per-directory configuration file
	ConfigFileName = ".autovenv.toml"
)

// Scope selects how an environment is shared between scripts.
type Scope int

const (
	// ScopeFile gives each script its own environment (".<stem>.venv")
	// fed by both the directory-wide and the per-script requirements.
	ScopeFile Scope = iota

	// ScopeDirectory shares one environment (".venv") between all scripts
	// in a directory, fed by the directory-wide requirements only.
	ScopeDirectory
)

func (s Scope) String() string {
	if s == ScopeDirectory {
		return "directory"
	}
	return "file"
}

// ScriptPaths resolves the on-disk layout for one script.
type ScriptPaths struct {
	script string
	scope  Scope
}

// NewScript resolves the layout for the given script path. The path is
// made absolute so relative invocations and relaunches agree on the same
// environment directory.
func NewScript(script string, scope Scope) (*ScriptPaths, error) {
	if script == "" {
		return nil, errors.New(errors.ErrScriptPath, "script path must not be empty")
	}
	abs, err := filepath.Abs(script)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptPath, "cannot resolve script path %s", script)
	}
	return &ScriptPaths{script: abs, scope: scope}, nil
}

// Script returns the absolute script path.
func (p *ScriptPaths) Script() string {
	return p.script
}

// Dir returns the directory containing the script.
func (p *ScriptPaths) Dir() string {
	return filepath.Dir(p.script)
}

// Stem returns the script's base name without its extension.
func (p *ScriptPaths) Stem() string {
	base := filepath.Base(p.script)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scope returns the environment scope the layout was resolved for.
func (p *ScriptPaths) Scope() Scope {
	return p.scope
}

// EnvDir returns the environment directory: ".<stem>.venv" beside the
// script in file scope, ".venv" in directory scope.
func (p *ScriptPaths) EnvDir() string {
	if p.scope == ScopeDirectory {
		return filepath.Join(p.Dir(), EnvDirSuffix)
	}
	return filepath.Join(p.Dir(), "."+p.Stem()+EnvDirSuffix)
}

// HashFile returns the hash record path inside the environment directory.
func (p *ScriptPaths) HashFile() string {
	return filepath.Join(p.EnvDir(), HashFileName)
}

// ConfigFile returns the optional per-directory config file path.
func (p *ScriptPaths) ConfigFile() string {
	return filepath.Join(p.Dir(), ConfigFileName)
}

// RequirementFiles returns the requirement sources for the script, in
// apply order: the directory-wide requirements first, then (file scope
// only) the per-script requirements.
func (p *ScriptPaths) RequirementFiles() []string {
	files := []string{filepath.Join(p.Dir(), DirRequirementsName)}
	if p.scope == ScopeFile {
		files = append(files, filepath.Join(p.Dir(), p.Stem()+ScriptRequirementsSuffix))
	}
	return files
}

// Interpreter returns the path of the environment's interpreter for the
// current platform.
func Interpreter(envDir string) string {
	return interpreterFor(envDir, runtime.GOOS == "windows")
}

func interpreterFor(envDir string, windows bool) string {
	if windows {
		return filepath.Join(envDir, "Scripts", "python.exe")
	}
	return filepath.Join(envDir, "bin", "python")
}
