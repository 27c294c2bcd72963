// Package hashstore persists the mapping from requirement-source name to
// the fingerprint that was last applied to an environment. The store is a
// plain text file inside the environment directory, one "name:fingerprint"
// record per line.
package hashstore

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/autovenv/autovenv/pkg/errors"
	"github.com/autovenv/autovenv/pkg/logging"
)

// Record maps a requirement source's display name to the fingerprint of
// its contents when it was last successfully applied.
type Record map[string]string

// Load reads a hash record file. A missing file yields an empty record.
// Lines without a colon or with an empty name are skipped with a warning;
// they never corrupt the rest of the mapping.
func Load(path string) (Record, error) {
	record := make(Record)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return record, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrHashLoad, "failed to read hash record %s", path)
	}

	logger := logging.GetLogger("hashstore")
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		name, fingerprint, found := strings.Cut(line, ":")
		if !found || name == "" {
			logger.Warn().Str("path", path).Str("line", line).Msg("Skipping malformed hash record line")
			continue
		}
		record[name] = fingerprint
	}

	return record, nil
}

// Save overwrites the hash record file with one line per entry. Entries
// are written in sorted name order so saved files are stable across runs.
func Save(path string, record Record) error {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s:%s\n", name, record[name])
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrHashSave, "failed to write hash record %s", path)
	}
	return nil
}
