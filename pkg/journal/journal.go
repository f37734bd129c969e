// Package journal records the paths reconciliation runs keep present.
//
// A journal is a plain text file with one absolute path per line,
// appended to by every successful run. Lines starting with "!" mark
// failed runs ("!name: reason") and are ignored by readers. The clean
// command consumes a journal as its exclusion list, so anything ever
// journaled survives pruning.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/overlink/overlink/pkg/errors"
)

// Append adds the given paths to the journal, creating it and its
// parent directories when missing.
func Append(path string, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}
	return appendString(path, sb.String())
}

// AppendFailure writes a failure marker for the named run. Newlines in
// the name are escaped to keep the journal line-oriented.
func AppendFailure(path, name, reason string) error {
	name = strings.ReplaceAll(name, "\n", "\\n")
	return appendString(path, fmt.Sprintf("!%s: %s\n", name, reason))
}

// Read returns the journaled paths in first-seen order, skipping
// failure markers, blank lines and duplicates.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound,
				"journal %s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot read journal %s", path)
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		paths = append(paths, line)
	}
	return paths, nil
}

func appendString(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create journal directory for %s", path)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot open journal %s", path)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(content); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write journal %s", path)
	}
	return nil
}
