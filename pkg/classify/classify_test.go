package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlink/overlink/pkg/classify"
	"github.com/overlink/overlink/pkg/pathinfo"
	"github.com/overlink/overlink/pkg/tree"
	"github.com/overlink/overlink/pkg/types"
)

// env is a scratch base/overlay directory pair.
type env struct {
	root    string
	base    string
	overlay string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{
		root:    root,
		base:    filepath.Join(root, "base"),
		overlay: filepath.Join(root, "overlay"),
	}
	require.NoError(t, os.Mkdir(e.base, 0755))
	require.NoError(t, os.Mkdir(e.overlay, 0755))
	return e
}

// overlayFile creates a file under the overlay directory, with parents.
func (e env) overlayFile(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(e.overlay, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0644))
}

// baseFile creates a real file under the base directory, with parents.
func (e env) baseFile(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(e.base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0644))
}

// baseLink creates a symlink at base/rel. When relative is set the target
// is rewritten relative to the link's directory.
func (e env) baseLink(t *testing.T, rel, target string, relative bool) {
	t.Helper()
	path := filepath.Join(e.base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	if relative {
		relTarget, err := filepath.Rel(filepath.Dir(path), target)
		require.NoError(t, err)
		target = relTarget
	}
	require.NoError(t, os.Symlink(target, path))
}

// classified builds the overlay tree, maps it onto base and classifies it.
func (e env) classified(t *testing.T, opts classify.Options) *tree.Node {
	t.Helper()
	overlay, err := tree.FromPath(e.overlay)
	require.NoError(t, err)
	mapped, err := tree.Translate(overlay, e.overlay, e.base)
	require.NoError(t, err)
	classify.Classify(mapped, e.overlay, opts)
	return mapped
}

func defaultOpts() classify.Options {
	return classify.Options{
		RelativeLinks: true,
		Conflict:      types.ConflictError,
		Collapse:      true,
	}
}

// node finds the mapped node for base/rel.
func (e env) node(t *testing.T, root *tree.Node, rel string) *tree.Node {
	t.Helper()
	path := filepath.Join(e.base, rel)
	matches := root.Filter(func(n *tree.Node) bool { return n.Path == path })
	require.Len(t, matches, 1, "expected exactly one node for %s", path)
	return matches[0]
}

// assertExclusive checks that overlaid, broken and conflicting never
// overlap, and that absent paths carry none of them.
func assertExclusive(t *testing.T, root *tree.Node) {
	t.Helper()
	root.VisitBelow(func(n *tree.Node) {
		count := 0
		for _, v := range []bool{n.Facts.Overlaid(), n.Facts.Broken(), n.Facts.Conflicting()} {
			if v {
				count++
			}
		}
		assert.LessOrEqual(t, count, 1, "facts overlap on %s", n.Path)
		if !pathinfo.Exists(n.Path) {
			assert.Zero(t, count, "absent path %s classified as present", n.Path)
		}
	})
}

func TestFreshTreeCollapse(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")

	mapped := e.classified(t, defaultOpts())
	assertExclusive(t, mapped)

	a := e.node(t, mapped, "a")
	assert.False(t, a.Facts.Symlinked())
	assert.False(t, a.Facts.Overlaid())
	assert.False(t, a.Facts.Broken())
	assert.False(t, a.Facts.Conflicting())
	assert.False(t, a.Facts.Collapsed())
	assert.True(t, a.Facts.Collapsible())
	assert.False(t, a.Facts.Removable(), "nothing exists at the path yet")
	assert.False(t, a.Facts.Remove())
	assert.True(t, a.Facts.Link(), "whole directory becomes one link")
	assert.True(t, a.Facts.Stat(), "fresh links are always synced")

	b := e.node(t, mapped, "a/b.txt")
	assert.False(t, b.Facts.Link(), "content lives behind the directory link")
	assert.False(t, b.Facts.Remove())
	assert.False(t, b.Facts.Stat())
}

func TestFreshTreeNoCollapse(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")

	opts := defaultOpts()
	opts.Collapse = false
	mapped := e.classified(t, opts)
	assertExclusive(t, mapped)

	a := e.node(t, mapped, "a")
	assert.True(t, a.Facts.Collapsible(), "tentative verdict stands, it is just not acted on")
	assert.False(t, a.Facts.Link(), "directories are never linked without collapse")
	assert.False(t, a.Facts.Remove())
	assert.True(t, a.Facts.Stat(), "directory created at execution time gets its mode synced")

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Link(), "leaves get their own links")
	assert.True(t, b.Facts.Stat())
}

func TestAlreadyCollapsed(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.baseLink(t, "a", filepath.Join(e.overlay, "a"), true)

	mapped := e.classified(t, defaultOpts())
	assertExclusive(t, mapped)

	a := e.node(t, mapped, "a")
	assert.False(t, a.Facts.Symlinked(), "the link itself is not behind a link")
	assert.True(t, a.Facts.Overlaid())
	assert.False(t, a.Facts.Broken())
	assert.True(t, a.Facts.Collapsed())
	assert.True(t, a.Facts.Collapsible(), "a link into the overlay never blocks a collapse")
	assert.False(t, a.Facts.Removable())
	assert.False(t, a.Facts.Remove())
	assert.False(t, a.Facts.Link())
	if !pathinfo.SupportsLchmod {
		assert.False(t, a.Facts.Stat(), "nothing to sync, the run is a no-op")
	}

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Symlinked())
	assert.False(t, b.Facts.Overlaid(), "content lives behind the link")
	assert.False(t, b.Facts.Collapsible())
	assert.False(t, b.Facts.Link())
	assert.False(t, b.Facts.Stat())
}

func TestAlreadyLinkedLeaf(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.baseLink(t, "a/b.txt", filepath.Join(e.overlay, "a", "b.txt"), true)

	opts := defaultOpts()
	opts.Collapse = false
	mapped := e.classified(t, opts)
	assertExclusive(t, mapped)

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Overlaid())
	assert.False(t, b.Facts.Removable())
	assert.False(t, b.Facts.Link())
	if !pathinfo.SupportsLchmod {
		assert.False(t, b.Facts.Stat())
	}
}

func TestWrongFormRelinked(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	// Absolute link where relative links are requested.
	e.baseLink(t, "a", filepath.Join(e.overlay, "a"), false)

	mapped := e.classified(t, defaultOpts())
	assertExclusive(t, mapped)

	a := e.node(t, mapped, "a")
	assert.False(t, a.Facts.Overlaid(), "wrong form does not count")
	assert.True(t, a.Facts.Broken())
	assert.True(t, a.Facts.Collapsible())
	assert.True(t, a.Facts.Removable())
	assert.True(t, a.Facts.Remove())
	assert.True(t, a.Facts.Link(), "relinked in the right form in the same run")
	assert.True(t, a.Facts.Stat())

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Symlinked())
	assert.True(t, b.Facts.Removable(), "vanishes with the parent")
	assert.False(t, b.Facts.Remove(), "only the topmost node is removed")
	assert.False(t, b.Facts.Link())
}

func TestForeignDirLink(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")

	// base/a is a symlink to an unrelated directory with its own content.
	foreign := filepath.Join(e.root, "foreign")
	require.NoError(t, os.Mkdir(foreign, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(foreign, "keep.txt"), []byte("keep"), 0644))
	e.baseLink(t, "a", foreign, false)

	mapped := e.classified(t, defaultOpts())
	assertExclusive(t, mapped)

	a := e.node(t, mapped, "a")
	assert.False(t, a.Facts.Broken(), "does not point into the overlay")
	assert.False(t, a.Facts.Conflicting(), "directory paths never conflict")
	assert.False(t, a.Facts.Collapsible(), "foreign links are not looked through")
	assert.False(t, a.Facts.Removable())
	assert.False(t, a.Facts.Remove())
	assert.False(t, a.Facts.Link())

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Symlinked())
	assert.False(t, b.Facts.Link(), "nothing is planted behind a foreign link")
}

func TestBrokenLeafLink(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.overlayFile(t, "a/c.txt")
	// Link resolves into the overlay but onto the wrong entry.
	e.baseLink(t, "a/b.txt", filepath.Join(e.overlay, "a", "c.txt"), true)

	opts := defaultOpts()
	opts.Collapse = false
	mapped := e.classified(t, opts)
	assertExclusive(t, mapped)

	b := e.node(t, mapped, "a/b.txt")
	assert.False(t, b.Facts.Overlaid())
	assert.True(t, b.Facts.Broken())
	assert.False(t, b.Facts.Conflicting())
	assert.True(t, b.Facts.Removable())
	assert.True(t, b.Facts.Remove())
	assert.True(t, b.Facts.Link())
}

func TestConflictPolicies(t *testing.T) {
	t.Run("error and keep leave the file alone", func(t *testing.T) {
		for _, policy := range []types.ConflictPolicy{types.ConflictError, types.ConflictKeep} {
			e := newEnv(t)
			e.overlayFile(t, "x")
			e.baseFile(t, "x")

			opts := defaultOpts()
			opts.Conflict = policy
			mapped := e.classified(t, opts)
			assertExclusive(t, mapped)

			x := e.node(t, mapped, "x")
			assert.True(t, x.Facts.Conflicting())
			assert.False(t, x.Facts.Removable(), "policy %s", policy)
			assert.False(t, x.Facts.Remove())
			assert.False(t, x.Facts.Link())
			assert.False(t, x.Facts.Stat())
		}
	})

	t.Run("replace removes and relinks", func(t *testing.T) {
		e := newEnv(t)
		e.overlayFile(t, "x")
		e.baseFile(t, "x")

		opts := defaultOpts()
		opts.Conflict = types.ConflictReplace
		mapped := e.classified(t, opts)
		assertExclusive(t, mapped)

		x := e.node(t, mapped, "x")
		assert.True(t, x.Facts.Conflicting())
		assert.True(t, x.Facts.Removable())
		assert.True(t, x.Facts.Remove())
		assert.True(t, x.Facts.Link())
		assert.True(t, x.Facts.Stat())
	})
}

func TestReplaceCollapsesDeclaredConflicts(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.baseFile(t, "a/b.txt")

	t.Run("without replace the directory cannot collapse", func(t *testing.T) {
		mapped := e.classified(t, defaultOpts())

		a := e.node(t, mapped, "a")
		assert.False(t, a.Facts.Collapsible(), "a real file is in the way")
		assert.False(t, a.Facts.Remove())
		assert.False(t, a.Facts.Link())

		b := e.node(t, mapped, "a/b.txt")
		assert.True(t, b.Facts.Conflicting())
		assert.False(t, b.Facts.Remove())
	})

	t.Run("replace swallows the declared conflict", func(t *testing.T) {
		opts := defaultOpts()
		opts.Conflict = types.ConflictReplace
		mapped := e.classified(t, opts)

		a := e.node(t, mapped, "a")
		assert.True(t, a.Facts.Collapsible(), "the conflicting file is declared by the subtree")
		assert.True(t, a.Facts.Removable())
		assert.True(t, a.Facts.Remove(), "the directory goes as a whole")
		assert.True(t, a.Facts.Link())

		b := e.node(t, mapped, "a/b.txt")
		assert.True(t, b.Facts.Conflicting())
		assert.True(t, b.Facts.Removable())
		assert.False(t, b.Facts.Remove(), "buried in the parent's removal")
		assert.False(t, b.Facts.Link())
	})
}

func TestUndeclaredFileBlocksCollapse(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	// A file the overlay does not declare sits next to the declared one.
	e.baseFile(t, "a/stray.txt")

	opts := defaultOpts()
	opts.Conflict = types.ConflictReplace
	mapped := e.classified(t, opts)

	a := e.node(t, mapped, "a")
	assert.False(t, a.Facts.Collapsible(), "undeclared files survive a collapse only by blocking it")
	assert.False(t, a.Facts.Remove())
	assert.False(t, a.Facts.Link())

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Link(), "the declared leaf is still linked individually")
}

func TestFileAtDirectoryPath(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.baseFile(t, "a") // a plain file where the overlay wants a directory

	mapped := e.classified(t, defaultOpts())

	a := e.node(t, mapped, "a")
	assert.False(t, a.Facts.Conflicting(), "conflicts are defined on overlay files, not directories")
	assert.True(t, a.Facts.Collapsible())
	assert.True(t, a.Facts.Removable())
	assert.True(t, a.Facts.Remove())
	assert.True(t, a.Facts.Link())
}

func TestLeafLinkedDirCollapses(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.baseLink(t, "a/b.txt", filepath.Join(e.overlay, "a", "b.txt"), true)

	mapped := e.classified(t, defaultOpts())

	a := e.node(t, mapped, "a")
	assert.True(t, a.Facts.Collapsible(), "leaf links into the overlay do not block the collapse")
	assert.True(t, a.Facts.Removable())
	assert.True(t, a.Facts.Remove())
	assert.True(t, a.Facts.Link(), "leaf-linked directory is folded into one link")

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Overlaid())
	assert.True(t, b.Facts.Removable())
	assert.False(t, b.Facts.Remove())
	assert.False(t, b.Facts.Link())
}

func TestExpandCollapsed(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	e.baseLink(t, "a", filepath.Join(e.overlay, "a"), true)

	opts := defaultOpts()
	opts.Collapse = false
	mapped := e.classified(t, opts)

	a := e.node(t, mapped, "a")
	assert.True(t, a.Facts.Overlaid())
	assert.True(t, a.Facts.Collapsed())
	assert.True(t, a.Facts.Removable(), "collapsed links are expanded when collapsing is off")
	assert.True(t, a.Facts.Remove())
	assert.False(t, a.Facts.Link(), "the directory is recreated plainly, not linked")
	assert.True(t, a.Facts.Stat(), "the recreated directory gets its mode synced")

	b := e.node(t, mapped, "a/b.txt")
	assert.True(t, b.Facts.Symlinked())
	assert.True(t, b.Facts.Removable())
	assert.False(t, b.Facts.Remove())
	assert.True(t, b.Facts.Link(), "each leaf gets its own link")
	assert.True(t, b.Facts.Stat())
}

func TestDirModeSync(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b.txt")
	require.NoError(t, os.Chmod(filepath.Join(e.overlay, "a"), 0755))
	e.baseLink(t, "a/b.txt", filepath.Join(e.overlay, "a", "b.txt"), true)

	opts := defaultOpts()
	opts.Collapse = false

	t.Run("mismatching directory is synced", func(t *testing.T) {
		require.NoError(t, os.Chmod(filepath.Join(e.base, "a"), 0700))
		mapped := e.classified(t, opts)

		a := e.node(t, mapped, "a")
		assert.True(t, a.Facts.Stat(), "ancestor of an overlaid node with differing mode")

		b := e.node(t, mapped, "a/b.txt")
		if !pathinfo.SupportsLchmod {
			assert.False(t, b.Facts.Stat())
		}
	})

	t.Run("matching directory is left alone", func(t *testing.T) {
		require.NoError(t, os.Chmod(filepath.Join(e.base, "a"), 0755))
		mapped := e.classified(t, opts)

		a := e.node(t, mapped, "a")
		assert.False(t, a.Facts.Stat())
	})
}

func TestSymlinkedSubtreeIsUntouchable(t *testing.T) {
	e := newEnv(t)
	e.overlayFile(t, "a/b/c.txt")

	elsewhere := filepath.Join(e.root, "elsewhere")
	require.NoError(t, os.Mkdir(elsewhere, 0755))
	e.baseLink(t, "a", elsewhere, false)

	mapped := e.classified(t, defaultOpts())

	b := e.node(t, mapped, "a/b")
	assert.True(t, b.Facts.Symlinked())
	assert.False(t, b.Facts.Collapsible())
	assert.False(t, b.Facts.Removable())
	assert.False(t, b.Facts.Link())

	c := e.node(t, mapped, "a/b/c.txt")
	assert.True(t, c.Facts.Symlinked(), "the verdict cascades to the whole subtree")
	assert.False(t, c.Facts.Link())
}
