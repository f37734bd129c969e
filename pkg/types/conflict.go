package types

import "github.com/overlink/overlink/pkg/errors"

// ConflictPolicy decides what happens to base files that stand where an
// overlay entry wants to go.
type ConflictPolicy string

const (
	// ConflictError fails the run before any mutation, listing every
	// conflicting path.
	ConflictError ConflictPolicy = "error"
	// ConflictKeep leaves conflicting base files alone and skips the
	// overlay entries they block.
	ConflictKeep ConflictPolicy = "keep"
	// ConflictReplace removes conflicting base files (backing them up when
	// a backup directory is configured) and links over them.
	ConflictReplace ConflictPolicy = "replace"
)

// ParseConflictPolicy converts a configuration string into a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case ConflictError, ConflictKeep, ConflictReplace:
		return ConflictPolicy(s), nil
	default:
		return "", errors.Newf(errors.ErrConfigValid,
			"conflict policy must be one of error, keep, replace, got %q", s)
	}
}

// Replace reports whether the policy allows removing base files in favor
// of overlay links.
func (p ConflictPolicy) Replace() bool {
	return p == ConflictReplace
}
