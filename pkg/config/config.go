// Package config loads the optional per-directory ".autovenv.toml" file.
// The file lets a script's directory override the base interpreter, the
// environment directory name, the package index, and add extra requirement
// sources. Everything in it is optional; a missing file is not an error.
package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/autovenv/autovenv/pkg/errors"
	"github.com/autovenv/autovenv/pkg/logging"
)

var log = logging.GetLogger("config")

// ScriptConfig holds the overrides read from .autovenv.toml.
type ScriptConfig struct {
	// Python overrides the base interpreter used to create environments.
	Python string `toml:"python"`

	// VenvDir overrides the environment directory name. Relative names
	// are resolved against the script's directory.
	VenvDir string `toml:"venv-dir"`

	// IndexURL is passed through to the installer as --index-url.
	IndexURL string `toml:"index-url"`

	// Requirements lists extra requirement sources applied after the
	// discovered ones, in order. Relative paths are resolved against the
	// script's directory.
	Requirements []string `toml:"requirements"`
}

// Load reads and parses a .autovenv.toml file. A missing file yields the
// zero config.
func Load(configPath string) (ScriptConfig, error) {
	var config ScriptConfig

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, errors.Wrapf(err, errors.ErrConfigParse, "failed to read config file %s", configPath)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", configPath)
	}

	log.Debug().Str("configPath", configPath).Msg("Loaded script config")
	return config, nil
}

// ResolveRequirements returns the config's extra requirement sources as
// absolute paths, resolving relative entries against baseDir.
func (c *ScriptConfig) ResolveRequirements(baseDir string) []string {
	resolved := make([]string, 0, len(c.Requirements))
	for _, req := range c.Requirements {
		if !filepath.IsAbs(req) {
			req = filepath.Join(baseDir, req)
		}
		resolved = append(resolved, req)
	}
	return resolved
}
