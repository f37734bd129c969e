// Package plan turns a classified overlay mapping into an execution plan.
//
// The plan is a flat, ordered view of the facts the classifier settled on
// the mapped tree: which paths to remove (and where to back them up),
// which symlinks to create, and which paths need their mode and owner
// synced from the overlay. Removals come before links, links before stat
// syncs; the executor relies on that order.
package plan

import (
	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/tree"
)

// Removal is a path scheduled for deletion. When the path holds user
// content that a conflict policy sacrifices, Backup names where a copy
// is placed first. Backup is empty when no backup is taken.
type Removal struct {
	Path        string
	Conflicting bool
	Backup      string
}

// Symlink is a link scheduled for creation. Target is the overlay-side
// path the link resolves to; the executor decides the on-disk form.
type Symlink struct {
	Path   string
	Target string
}

// StatSync is a path whose mode and owner are copied from Source.
type StatSync struct {
	Path   string
	Source string
}

// Plan is everything one reconciliation run intends to do.
type Plan struct {
	Remove   []Removal
	Link     []Symlink
	SyncStat []StatSync

	// Conflicts lists every base path where unrelated user content sits
	// in the way of the overlay, whether or not the plan touches it.
	Conflicts []string

	// Changed reports whether executing the plan alters the base tree.
	Changed bool
}

// Build flattens a classified mapped tree into a Plan. The tree root is
// the base directory itself and is never part of the plan. backupDir may
// be empty, in which case conflicting removals are not backed up.
func Build(mapped *tree.Node, baseDir, backupDir string) (*Plan, error) {
	p := &Plan{}

	for _, n := range mapped.FilterBelow(func(n *tree.Node) bool { return n.Facts.Remove() }) {
		removal := Removal{
			Path:        n.Path,
			Conflicting: n.Facts.Conflicting(),
		}
		if backupDir != "" && removal.Conflicting {
			backup, err := tree.TranslatePath(n.Path, baseDir, backupDir)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInternal,
					"cannot derive backup path for %s", n.Path)
			}
			removal.Backup = backup
		}
		p.Remove = append(p.Remove, removal)
	}

	for _, n := range mapped.FilterBelow(func(n *tree.Node) bool { return n.Facts.Link() }) {
		p.Link = append(p.Link, Symlink{Path: n.Path, Target: n.Original})
	}

	for _, n := range mapped.FilterBelow(func(n *tree.Node) bool { return n.Facts.Stat() }) {
		p.SyncStat = append(p.SyncStat, StatSync{Path: n.Path, Source: n.Original})
	}

	for _, n := range mapped.FilterBelow(func(n *tree.Node) bool { return n.Facts.Conflicting() }) {
		p.Conflicts = append(p.Conflicts, n.Path)
	}

	p.Changed = len(p.Remove)+len(p.Link)+len(p.SyncStat) > 0
	return p, nil
}

// RemovedPaths lists the paths scheduled for removal, in plan order.
func (p *Plan) RemovedPaths() []string {
	paths := make([]string, len(p.Remove))
	for i, r := range p.Remove {
		paths[i] = r.Path
	}
	return paths
}

// LinkedPaths lists the link paths scheduled for creation, in plan order.
func (p *Plan) LinkedPaths() []string {
	paths := make([]string, len(p.Link))
	for i, l := range p.Link {
		paths[i] = l.Path
	}
	return paths
}

// SyncedPaths lists the paths scheduled for a mode and owner sync.
func (p *Plan) SyncedPaths() []string {
	paths := make([]string, len(p.SyncStat))
	for i, s := range p.SyncStat {
		paths[i] = s.Path
	}
	return paths
}

// BackedUp lists the backup destinations of conflicting removals. Empty
// when no backup directory is configured or nothing conflicts.
func (p *Plan) BackedUp() []string {
	var paths []string
	for _, r := range p.Remove {
		if r.Backup != "" {
			paths = append(paths, r.Backup)
		}
	}
	return paths
}
