// Package tree builds and traverses the in-memory directory trees the
// reconciliation engine works on: the overlay tree read from disk, and the
// mapped tree produced by translating it onto the base directory.
//
// A tree is a point-in-time snapshot. It is built once from a live
// directory listing and never refreshed; later passes consult the
// filesystem directly when they need current state.
package tree

import (
	"os"
	"path/filepath"

	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/pathinfo"
)

// Unbounded marks a tree built without a depth limit.
const Unbounded = -1

// Node is one entry of a directory tree. Children are owned by their
// parent and discarded with it.
type Node struct {
	// Path is the absolute path of this entry. On mapped trees it is the
	// base-side path the entry should appear at.
	Path string

	// IsDir is computed once at build time. A symlink is never a
	// directory, regardless of its target.
	IsDir bool

	// Depth is the remaining recursion budget this node was built with,
	// or Unbounded when no limit was given.
	Depth int

	// Children holds the entries directly below this node, sorted by name.
	Children []*Node

	// Original is the overlay-side path this node was translated from.
	// Empty on trees that have not been translated.
	Original string

	// Facts collects the classification verdicts for this node.
	Facts Facts
}

// FromPath builds a tree from an existing absolute path, recursing into
// every real directory. Symlinks are treated like files and not followed.
func FromPath(path string) (*Node, error) {
	return build(path, Unbounded)
}

// FromPathDepth is FromPath with a recursion limit: depth 0 lists nothing
// below the root, depth 1 its direct children, and so on.
func FromPathDepth(path string, depth int) (*Node, error) {
	if depth < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"tree depth must not be negative, got %d", depth)
	}
	return build(path, depth)
}

func build(path string, depth int) (*Node, error) {
	if !filepath.IsAbs(path) {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"tree root must be an absolute path, got %q", path)
	}
	if !pathinfo.Exists(path) {
		return nil, errors.Newf(errors.ErrTreeBuild, "path %s does not exist", path)
	}

	n := &Node{
		Path:  filepath.Clean(path),
		IsDir: pathinfo.IsDir(path),
		Depth: depth,
	}
	if !n.IsDir || depth == 0 {
		return n, nil
	}

	entries, err := os.ReadDir(n.Path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrapf(err, errors.ErrPermission,
				"insufficient permissions to read %s", n.Path)
		}
		return nil, errors.Wrapf(err, errors.ErrTreeBuild, "cannot list %s", n.Path)
	}

	childDepth := depth
	if depth != Unbounded {
		childDepth = depth - 1
	}
	for _, entry := range entries {
		child, err := build(filepath.Join(n.Path, entry.Name()), childDepth)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}
