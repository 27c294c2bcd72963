// Package requirements applies requirement sources to an environment and
// tracks per-source content fingerprints.
//
// The installer is invoked on every apply, even when a source's
// fingerprint is unchanged: the fingerprint comparison only decides
// whether the apply counts as a change for the caller. Relaunch avoidance
// depends on that distinction, so the extra installer run is deliberate.
package requirements

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/autovenv/autovenv/pkg/hashstore"
	"github.com/autovenv/autovenv/pkg/installer"
	"github.com/autovenv/autovenv/pkg/internal/hashutil"
	"github.com/autovenv/autovenv/pkg/logging"
)

// Source is one requirement-source file. Name is its base filename and
// keys the persisted hash record.
type Source struct {
	Name string
	Path string
}

// NewSource builds a Source from a file path.
func NewSource(path string) Source {
	return Source{Name: filepath.Base(path), Path: path}
}

// Applier applies requirement sources against one environment, keeping
// the environment's hash record up to date.
type Applier struct {
	pip      *installer.Pip
	hashPath string
	record   hashstore.Record
	logger   zerolog.Logger
}

// NewApplier loads the hash record at hashPath and returns an Applier
// installing through pip.
func NewApplier(pip *installer.Pip, hashPath string) (*Applier, error) {
	record, err := hashstore.Load(hashPath)
	if err != nil {
		return nil, err
	}
	return &Applier{
		pip:      pip,
		hashPath: hashPath,
		record:   record,
		logger:   logging.GetLogger("requirements"),
	}, nil
}

// Apply installs one requirement source and reports whether its content
// changed since the last successful apply.
//
// A missing source still triggers the installer call (operationally a
// no-dependency install) but never adds a record entry: an absent source
// is represented by the absence of its key.
func (a *Applier) Apply(ctx context.Context, src Source) (bool, error) {
	fingerprint := hashutil.DigestFile(src.Path)
	previous := a.record[src.Name]

	a.logger.Debug().
		Str("source", src.Name).
		Str("fingerprint", fingerprint).
		Str("previous", previous).
		Msg("Applying requirement source")

	if err := a.pip.InstallRequirements(ctx, src.Path); err != nil {
		return false, err
	}

	if fingerprint == "" {
		return false, nil
	}

	a.record[src.Name] = fingerprint
	if err := hashstore.Save(a.hashPath, a.record); err != nil {
		return false, err
	}

	return fingerprint != previous, nil
}

// UpToDate reports whether the source's current content matches its
// recorded fingerprint, without touching the installer.
func (a *Applier) UpToDate(src Source) bool {
	recorded, ok := a.record[src.Name]
	return ok && recorded == hashutil.DigestFile(src.Path)
}

// Record returns a copy of the in-memory hash record.
func (a *Applier) Record() hashstore.Record {
	record := make(hashstore.Record, len(a.record))
	for name, fingerprint := range a.record {
		record[name] = fingerprint
	}
	return record
}
