package tree

import "fmt"

type factBit uint16

const (
	factSymlinked factBit = 1 << iota
	factOverlaid
	factBroken
	factConflicting
	factCollapsed
	factCollapsible
	factRemovable
	factRemove
	factLink
	factStat
)

func (b factBit) String() string {
	switch b {
	case factSymlinked:
		return "symlinked"
	case factOverlaid:
		return "overlaid"
	case factBroken:
		return "broken"
	case factConflicting:
		return "conflicting"
	case factCollapsed:
		return "collapsed"
	case factCollapsible:
		return "collapsible"
	case factRemovable:
		return "removable"
	case factRemove:
		return "remove"
	case factLink:
		return "link"
	case factStat:
		return "stat"
	}
	return fmt.Sprintf("factBit(%d)", uint16(b))
}

// Facts holds the classification verdicts attached to one mapped node.
// Every fact is written exactly once by the pass that owns it and may only
// be read afterwards. Out-of-order access panics instead of handing out a
// zero value, since the strict pass ordering is what keeps the
// classification sound.
type Facts struct {
	computed factBit

	symlinked   bool
	overlaid    bool
	broken      bool
	conflicting bool
	collapsed   bool
	collapsible bool
	removable   bool
	remove      bool
	link        bool
	stat        bool
}

func (f *Facts) set(bit factBit) {
	if f.computed&bit != 0 {
		panic(fmt.Sprintf("tree: fact %s assigned twice", bit))
	}
	f.computed |= bit
}

func (f *Facts) need(bit factBit) {
	if f.computed&bit == 0 {
		panic(fmt.Sprintf("tree: fact %s read before assignment", bit))
	}
}

// Symlinked reports whether the node sits behind an ancestor symlink.
func (f *Facts) Symlinked() bool { f.need(factSymlinked); return f.symlinked }

// SetSymlinked assigns the symlinked fact.
func (f *Facts) SetSymlinked(v bool) { f.set(factSymlinked); f.symlinked = v }

// Overlaid reports whether the node is already a correct overlay link.
func (f *Facts) Overlaid() bool { f.need(factOverlaid); return f.overlaid }

// SetOverlaid assigns the overlaid fact.
func (f *Facts) SetOverlaid(v bool) { f.set(factOverlaid); f.overlaid = v }

// Broken reports whether the node is a link into the overlay that does not
// resolve to its own overlay entry.
func (f *Facts) Broken() bool { f.need(factBroken); return f.broken }

// SetBroken assigns the broken fact.
func (f *Facts) SetBroken(v bool) { f.set(factBroken); f.broken = v }

// Conflicting reports whether a foreign base file blocks the node's path.
func (f *Facts) Conflicting() bool { f.need(factConflicting); return f.conflicting }

// SetConflicting assigns the conflicting fact.
func (f *Facts) SetConflicting(v bool) { f.set(factConflicting); f.conflicting = v }

// Collapsed reports whether the node is a directory already replaced by a
// single overlay link.
func (f *Facts) Collapsed() bool { f.need(factCollapsed); return f.collapsed }

// SetCollapsed assigns the collapsed fact.
func (f *Facts) SetCollapsed(v bool) { f.set(factCollapsed); f.collapsed = v }

// Collapsible reports whether the node's subtree could become one link.
func (f *Facts) Collapsible() bool { f.need(factCollapsible); return f.collapsible }

// SetCollapsible assigns the collapsible fact.
func (f *Facts) SetCollapsible(v bool) { f.set(factCollapsible); f.collapsible = v }

// Removable reports whether the node may be deleted from the base tree.
func (f *Facts) Removable() bool { f.need(factRemovable); return f.removable }

// SetRemovable assigns the removable fact.
func (f *Facts) SetRemovable(v bool) { f.set(factRemovable); f.removable = v }

// Remove reports whether the node is the topmost entry of a removable
// subtree and will actually be deleted.
func (f *Facts) Remove() bool { f.need(factRemove); return f.remove }

// SetRemove assigns the remove fact.
func (f *Facts) SetRemove(v bool) { f.set(factRemove); f.remove = v }

// Link reports whether a symlink will be created at the node's path.
func (f *Facts) Link() bool { f.need(factLink); return f.link }

// SetLink assigns the link fact.
func (f *Facts) SetLink(v bool) { f.set(factLink); f.link = v }

// Stat reports whether the node's mode and owner need syncing from the
// overlay.
func (f *Facts) Stat() bool { f.need(factStat); return f.stat }

// SetStat assigns the stat fact.
func (f *Facts) SetStat(v bool) { f.set(factStat); f.stat = v }
