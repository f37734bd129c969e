// Package clean prunes a directory down to a set of protected paths.
//
// Everything beneath the root is removed unless it is, or contains,
// one of the excluded paths. Excluded paths are kept whole, including
// everything inside them. Symlinks are never followed, so a link to a
// directory is removed as a link and cleaning never escapes the root.
package clean

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/pathinfo"
	"github.com/overlink/overlink/pkg/tree"
)

// Plan returns the paths a Clean run would remove, without touching
// anything. The root itself is never removed.
func Plan(root string, exclude []string) ([]string, error) {
	cleaned := make([]string, len(exclude))
	for i, ex := range exclude {
		cleaned[i] = filepath.Clean(ex)
	}

	tr, err := tree.FromPath(root)
	if err != nil {
		return nil, err
	}

	var removals []string
	tr.VisitPruneBelow(func(n *tree.Node) bool {
		if excluded(cleaned, n.Path) {
			return false
		}
		if !shelters(cleaned, n.Path) {
			removals = append(removals, n.Path)
			return false
		}
		// An excluded path lives further down. Only real directories
		// can be descended into to spare it.
		return n.IsDir
	})
	return removals, nil
}

// Clean removes everything under root that neither is nor contains an
// excluded path. It returns the removed paths in removal order.
func Clean(root string, exclude []string, logger zerolog.Logger) ([]string, error) {
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("clean")
	}

	removals, err := Plan(root, exclude)
	if err != nil {
		return nil, err
	}

	for i, path := range removals {
		logger.Debug().Str("path", path).Msg("Removing")
		if err := os.RemoveAll(path); err != nil {
			// Report what was already removed alongside the failure.
			return removals[:i], errors.Wrapf(err, errors.ErrRemove,
				"cannot remove %s", path)
		}
	}
	return removals, nil
}

// excluded reports whether path is one of the protected paths.
func excluded(exclude []string, path string) bool {
	for _, ex := range exclude {
		if ex == path {
			return true
		}
	}
	return false
}

// shelters reports whether path contains a protected path somewhere
// beneath it.
func shelters(exclude []string, path string) bool {
	for _, ex := range exclude {
		if pathinfo.IsInside(ex, path) {
			return true
		}
	}
	return false
}
