// Package classify assigns the reconciliation facts to every node of the
// mapped tree.
//
// The pipeline is an ordered sequence of passes. Each pass computes one
// boolean fact per node from live filesystem state plus facts assigned by
// strictly earlier passes, so the order in Classify is load-bearing. When
// a pass reaches a verdict that binds a whole subtree, the verdict is
// carried down by an accumulator argument instead of re-inspecting the
// filesystem below the deciding node.
package classify

import (
	"os"
	"path/filepath"

	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/pathinfo"
	"github.com/overlink/overlink/pkg/tree"
	"github.com/overlink/overlink/pkg/types"
)

// Options carries the run configuration the passes depend on.
type Options struct {
	// RelativeLinks selects whether correct overlay links are written
	// relative; existing links of the other form are reclassified as
	// broken and rewritten.
	RelativeLinks bool

	// Conflict decides whether foreign base files may be replaced.
	Conflict types.ConflictPolicy

	// Collapse allows whole directory subtrees to become single links.
	Collapse bool
}

// Classify runs every pass over the mapped tree, children-only: the root
// is the base directory itself and is never classified.
func Classify(mapped *tree.Node, overlayDir string, opts Options) {
	logger := logging.GetLogger("classify")
	logger.Debug().
		Str("path", mapped.Path).
		Str("overlay", overlayDir).
		Bool("collapse", opts.Collapse).
		Str("conflict", string(opts.Conflict)).
		Msg("Classifying mapped tree")

	replace := opts.Conflict.Replace()

	markSymlinked(mapped)
	markOverlaid(mapped, opts.RelativeLinks)
	markBroken(mapped, overlayDir)
	markConflicting(mapped)
	markCollapsed(mapped)
	markCollapsible(mapped, overlayDir, replace)
	markRemovable(mapped, opts.Collapse, replace)
	markRemove(mapped)
	markLink(mapped, opts.Collapse)
	markStat(mapped)
}

// markSymlinked flags every node living behind an ancestor symlink. The
// symlink itself stays false; everything underneath it inherits true
// without further inspection.
func markSymlinked(root *tree.Node) {
	var walk func(n *tree.Node, behindLink bool)
	walk = func(n *tree.Node, behindLink bool) {
		n.Facts.SetSymlinked(behindLink)
		behind := behindLink || pathinfo.IsSymlink(n.Path)
		for _, c := range n.Children {
			walk(c, behind)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}

// markOverlaid flags nodes that are already a symlink onto their own
// overlay entry in the requested relative/absolute form. The content of an
// overlaid directory lives behind the link, so its children are never
// overlaid themselves.
func markOverlaid(root *tree.Node, relativeLinks bool) {
	var walk func(n *tree.Node, settled bool)
	walk = func(n *tree.Node, settled bool) {
		switch {
		case settled || n.Facts.Symlinked():
			n.Facts.SetOverlaid(false)
			settled = true
		case pathinfo.PointsTo(n.Path, n.Original):
			n.Facts.SetOverlaid(pathinfo.IsRelativeLink(n.Path) == relativeLinks)
			settled = true
		default:
			n.Facts.SetOverlaid(false)
		}
		for _, c := range n.Children {
			walk(c, settled)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}

// markBroken flags symlinks that point into the overlay but not at their
// own entry. Links of the wrong relative/absolute form land here too.
func markBroken(root *tree.Node, overlayDir string) {
	root.VisitBelow(func(n *tree.Node) {
		n.Facts.SetBroken(!n.Facts.Symlinked() &&
			pathinfo.PointsInto(n.Path, overlayDir) &&
			!n.Facts.Overlaid())
	})
}

// markConflicting flags foreign base files standing where an overlay entry
// wants to go.
func markConflicting(root *tree.Node) {
	root.VisitBelow(func(n *tree.Node) {
		n.Facts.SetConflicting(!n.Facts.Symlinked() &&
			pathinfo.Exists(n.Path) &&
			!n.IsDir &&
			!n.Facts.Overlaid() &&
			!n.Facts.Broken())
	})
}

// markCollapsed flags directories already replaced by a single overlay
// link.
func markCollapsed(root *tree.Node) {
	root.VisitBelow(func(n *tree.Node) {
		n.Facts.SetCollapsed(n.IsDir && n.Facts.Overlaid())
	})
}

// markCollapsible flags directory subtrees that could be swallowed by a
// single link. A tentative verdict from the overlay side is confirmed
// against what actually exists on disk under the path, since the overlay
// only declares its own entries. On success the verdict binds the subtree;
// on failure each child is judged on its own.
//
// A symlink standing at the path is never looked through: if it points
// into the overlay it will be removed and relinked whole, so it cannot
// block the collapse; if it points elsewhere the path is left alone.
func markCollapsible(root *tree.Node, overlayDir string, replace bool) {
	var walk func(n *tree.Node, settledTrue bool)
	walk = func(n *tree.Node, settledTrue bool) {
		if settledTrue {
			n.Facts.SetCollapsible(!n.Facts.Symlinked())
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}

		collapsible := !n.Facts.Symlinked() &&
			n.IsDir &&
			(!n.Facts.Conflicting() || replace)
		if collapsible && pathinfo.IsSymlink(n.Path) {
			collapsible = pathinfo.PointsInto(n.Path, overlayDir)
		} else if collapsible && pathinfo.Exists(n.Path) {
			collapsible = diskReplaceable(n, overlayDir, replace)
		}

		n.Facts.SetCollapsible(collapsible)
		for _, c := range n.Children {
			walk(c, collapsible)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}

// diskReplaceable reports whether every entry that actually exists on disk
// under n.Path could disappear behind one overlay link: each must be a
// real directory, a symlink already pointing into the overlay, or, with
// replace enabled, a path the mapped subtree explicitly declares.
// Unreadable directories are skipped, matching the tree build's view.
func diskReplaceable(n *tree.Node, overlayDir string, replace bool) bool {
	var declared map[string]struct{}
	if replace {
		declared = make(map[string]struct{})
		n.Visit(func(m *tree.Node) { declared[m.Path] = struct{}{} })
	}

	var scan func(dir string) bool
	scan = func(dir string) bool {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return true
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if !scan(path) {
					return false
				}
				continue
			}
			if pathinfo.PointsInto(path, overlayDir) {
				continue
			}
			if replace {
				if _, ok := declared[path]; ok {
					continue
				}
			}
			return false
		}
		return true
	}
	return scan(n.Path)
}

// markRemovable flags everything that may be deleted from the base tree:
// broken links, subtrees about to collapse, collapsed links that must be
// expanded again, and conflicts under the replace policy. The verdict
// binds the whole subtree.
func markRemovable(root *tree.Node, collapse, replace bool) {
	var walk func(n *tree.Node, forced bool)
	walk = func(n *tree.Node, forced bool) {
		if forced {
			n.Facts.SetRemovable(true)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}

		removable := n.Facts.Broken() ||
			(collapse && n.Facts.Collapsible() && pathinfo.Exists(n.Path) && !n.Facts.Collapsed()) ||
			(!collapse && n.Facts.Collapsed()) ||
			(replace && n.Facts.Conflicting())

		n.Facts.SetRemovable(removable)
		for _, c := range n.Children {
			walk(c, removable)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}

// markRemove flags only the topmost node of each maximal removable
// subtree. Its descendants disappear with it and are not marked.
func markRemove(root *tree.Node) {
	var walk func(n *tree.Node, buried bool)
	walk = func(n *tree.Node, buried bool) {
		if buried {
			n.Facts.SetRemove(false)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}
		if n.Facts.Removable() {
			n.Facts.SetRemove(true)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}
		n.Facts.SetRemove(false)
		for _, c := range n.Children {
			walk(c, false)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}

// markLink flags nodes that get a fresh symlink: paths that are absent or
// about to be vacated. A directory is only linked whole when collapsing is
// both enabled and possible; otherwise the pass descends and the directory
// is created plainly at execution time.
func markLink(root *tree.Node, collapse bool) {
	var walk func(n *tree.Node, blocked bool)
	walk = func(n *tree.Node, blocked bool) {
		if blocked {
			n.Facts.SetLink(false)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}

		link := (!n.Facts.Symlinked() && !n.Facts.Overlaid() && !n.Facts.Conflicting()) ||
			n.Facts.Removable()
		if link && (!n.IsDir || (collapse && n.Facts.Collapsible())) {
			n.Facts.SetLink(true)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}

		n.Facts.SetLink(false)
		for _, c := range n.Children {
			walk(c, false)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}

// markStat flags nodes whose mode and owner need syncing from the overlay.
// Fresh links are always synced. Existing overlay links are compared
// attribute by attribute, skipping what the platform cannot set on a
// symlink. Plain directories recurse so a mismatching ancestor of a linked
// node is caught even though the directory itself is never linked. An
// overlaid link that is about to be removed and expanded counts as a
// directory here, so the expanded tree's root gets its mode synced too.
func markStat(root *tree.Node) {
	var walk func(n *tree.Node, behindLeaf bool)
	walk = func(n *tree.Node, behindLeaf bool) {
		if behindLeaf {
			n.Facts.SetStat(false)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}

		if n.Facts.Link() || (n.Facts.Overlaid() && !n.Facts.Remove()) {
			matches := pathinfo.Exists(n.Path) &&
				(!pathinfo.SupportsLchmod || pathinfo.EqualMode(n.Path, n.Original)) &&
				(!pathinfo.SupportsLchown || pathinfo.EqualOwner(n.Path, n.Original))
			n.Facts.SetStat(n.Facts.Link() || !matches)
			for _, c := range n.Children {
				walk(c, true)
			}
			return
		}

		matches := pathinfo.Exists(n.Path) &&
			pathinfo.EqualMode(n.Path, n.Original) &&
			pathinfo.EqualOwner(n.Path, n.Original)
		n.Facts.SetStat(!matches && n.AnyBelow(func(m *tree.Node) bool {
			return m.Facts.Link() || m.Facts.Overlaid()
		}))
		for _, c := range n.Children {
			walk(c, false)
		}
	}
	for _, c := range root.Children {
		walk(c, false)
	}
}
