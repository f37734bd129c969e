package tree

// Traversal primitives over a tree. The built root is the base or overlay
// directory itself and is never linked, removed, or reported, so the Below
// variants exist to run the same operations on everything underneath it.

// Visit applies fn to n and every node beneath it, parents before children.
func (n *Node) Visit(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Visit(fn)
	}
}

// VisitBelow applies fn to every node strictly below n.
func (n *Node) VisitBelow(fn func(*Node)) {
	for _, c := range n.Children {
		c.Visit(fn)
	}
}

// VisitPrune applies fn pre-order. Returning false skips the node's
// children: the subtree counts as fully decided by its parent's verdict.
func (n *Node) VisitPrune(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.VisitPrune(fn)
	}
}

// VisitPruneBelow applies fn like VisitPrune to every subtree strictly
// below n.
func (n *Node) VisitPruneBelow(fn func(*Node) bool) {
	for _, c := range n.Children {
		c.VisitPrune(fn)
	}
}

// VisitPost applies fn to every node in the subtree, children before
// parents.
func (n *Node) VisitPost(fn func(*Node)) {
	for _, c := range n.Children {
		c.VisitPost(fn)
	}
	fn(n)
}

// VisitPostBelow applies fn post-order to every node strictly below n.
func (n *Node) VisitPostBelow(fn func(*Node)) {
	for _, c := range n.Children {
		c.VisitPost(fn)
	}
}

// Filter returns every node in the subtree for which pred holds, in
// pre-order.
func (n *Node) Filter(pred func(*Node) bool) []*Node {
	var matching []*Node
	n.Visit(func(m *Node) {
		if pred(m) {
			matching = append(matching, m)
		}
	})
	return matching
}

// FilterBelow returns every node strictly below n for which pred holds.
func (n *Node) FilterBelow(pred func(*Node) bool) []*Node {
	var matching []*Node
	n.VisitBelow(func(m *Node) {
		if pred(m) {
			matching = append(matching, m)
		}
	})
	return matching
}

// All reports whether pred holds for n and every node beneath it.
func (n *Node) All(pred func(*Node) bool) bool {
	if !pred(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.All(pred) {
			return false
		}
	}
	return true
}

// AllBelow reports whether pred holds for every node strictly below n.
func (n *Node) AllBelow(pred func(*Node) bool) bool {
	for _, c := range n.Children {
		if !c.All(pred) {
			return false
		}
	}
	return true
}

// Any reports whether pred holds for n or any node beneath it.
func (n *Node) Any(pred func(*Node) bool) bool {
	if pred(n) {
		return true
	}
	for _, c := range n.Children {
		if c.Any(pred) {
			return true
		}
	}
	return false
}

// AnyBelow reports whether pred holds for any node strictly below n.
func (n *Node) AnyBelow(pred func(*Node) bool) bool {
	for _, c := range n.Children {
		if c.Any(pred) {
			return true
		}
	}
	return false
}
